package schema

import (
	"crypto/sha256"
	"encoding/hex"
)

// Source identifies one of the upstream generation feeds.
type Source string

const (
	// SourceNPP is the plant-level feed.
	SourceNPP Source = "npp"
	// SourceEIA is the national-utility feed.
	SourceEIA Source = "eia"
	// SourceENTSOE is the transmission-area feed.
	SourceENTSOE Source = "entsoe"
)

// TypeTag names the JSON type contract of a field.
type TypeTag string

const (
	TypeString               TypeTag = "string"
	TypeInteger              TypeTag = "integer"
	TypeFloat                TypeTag = "float"
	TypeStringOrNull         TypeTag = "string-or-null"
	TypeIntegerOrNull        TypeTag = "integer-or-null"
	TypeBooleanOrNull        TypeTag = "boolean-or-null"
	TypeIntegerOrString      TypeTag = "integer-or-string"
	TypeStringOrNullOrNumber TypeTag = "string-or-null-or-number"
)

// Known reports whether t is a supported type tag.
func (t TypeTag) Known() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat,
		TypeStringOrNull, TypeIntegerOrNull, TypeBooleanOrNull,
		TypeIntegerOrString, TypeStringOrNullOrNumber:
		return true
	}
	return false
}

// RuleTag names a validation predicate applied after the type check passed.
type RuleTag string

const (
	RuleNone              RuleTag = ""
	RuleUUID              RuleTag = "uuid"
	RulePositiveTimestamp RuleTag = "positive_timestamp"
	RuleNonEmpty          RuleTag = "non_empty"
	RuleStateCode         RuleTag = "state_code"
	RuleNonNegative       RuleTag = "non_negative"
	RulePositive          RuleTag = "positive"
)

// Known reports whether r is a supported rule tag. RuleNone is known.
func (r RuleTag) Known() bool {
	switch r {
	case RuleNone, RuleUUID, RulePositiveTimestamp, RuleNonEmpty,
		RuleStateCode, RuleNonNegative, RulePositive:
		return true
	}
	return false
}

// FieldSpec is the contract for a single field.
type FieldSpec struct {
	Type TypeTag
	Rule RuleTag
}

// Field pairs a field name with its contract. Schemas keep fields in
// declaration order.
type Field struct {
	Name string
	Spec FieldSpec
}

// Schema is the immutable contract for one source.
type Schema struct {
	Source Source

	// Required fields, validated in declaration order.
	Required []Field

	// Optional fields are type-checked only when present.
	Optional []Field

	// DuplicateKey lists the fields projected to detect repeated readings.
	DuplicateKey []string

	// Table and Columns describe how the storage port lays out valid records.
	Table   string
	Columns []string

	// Fingerprint is the SHA-256 of the definition the schema was built from.
	Fingerprint string
}

// ComputeFingerprint calculates SHA-256 hash of the definition.
func ComputeFingerprint(definition []byte) string {
	hash := sha256.Sum256(definition)
	return hex.EncodeToString(hash[:])
}
