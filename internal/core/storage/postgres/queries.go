package postgres

// SQL for generation record storage and extraction metadata.

const (
	// queryUpsertExtractionMetadata re-running an extraction with the same
	// run id refreshes its totals and failure details, keeping the original
	// timestamps and configuration snapshot.
	queryUpsertExtractionMetadata = `
		INSERT INTO extraction_metadata (
			extraction_run_id, source, extraction_timestamp,
			start_date, end_date, total_records, failed_count, success,
			failed_details, config_snapshot, source_urls,
			extraction_duration_seconds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (extraction_run_id) DO UPDATE SET
			total_records  = EXCLUDED.total_records,
			failed_count   = EXCLUDED.failed_count,
			success        = EXCLUDED.success,
			failed_details = EXCLUDED.failed_details
	`

	// queryExistingTables lists which of the given tables exist in the
	// connection's current schema.
	queryExistingTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
	`

	// queryCountRowsFmt is formatted with a quoted identifier.
	queryCountRowsFmt = `SELECT COUNT(*) FROM %s`
)
