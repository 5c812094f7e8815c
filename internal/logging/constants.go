package logging

// Standard field names for structured log output.
const (
	FieldFile       = "file_path"
	FieldCollection = "collection"
	FieldTable      = "table"
	FieldMerchant   = "merchant"
	FieldCategory   = "category"
	FieldQuestion   = "question"
	FieldQuery      = "query"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldRunID      = "run_id"
	FieldOutputFile = "output_file"
	FieldExtractor  = "extractor"
	FieldTableIndex = "table_index"
)
