package mocks

//go:generate mockery --name Store --srcpkg github.com/powergen-lab/powergen-etl/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
