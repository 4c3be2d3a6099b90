package schema

// Custom string types for type safety.
type (
	// AxisMode represents how the X axis of a chart is interpreted.
	AxisMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// PreviewFormat represents the image format of a rendered preview.
	PreviewFormat string

	// DatabaseBackend represents the database backend for snapshot storage.
	DatabaseBackend string
)

// All axis modes supported.
const (
	TimeAxisMode   AxisMode = "time" // default
	SeriesAxisMode AxisMode = "series"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All preview formats supported.
const (
	PNGPreview PreviewFormat = "png" // default
	SVGPreview PreviewFormat = "svg"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidAxisModes lists all valid axis modes.
var ValidAxisModes = map[AxisMode]struct{}{
	TimeAxisMode:   {},
	SeriesAxisMode: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidPreviewFormats lists all valid preview formats.
var ValidPreviewFormats = map[PreviewFormat]struct{}{
	PNGPreview: {},
	SVGPreview: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultPalette is the multi-color chart palette used when none is configured.
var DefaultPalette = []string{
	"#06c",
	"#4cb140",
	"#009596",
	"#5752d1",
	"#f4c145",
	"#ec7a08",
	"#7d1007",
	"#b8bbbe",
}

// Legend footprint thresholds, keyed by the minimum label length in characters.
const (
	LegendItemWidthXL = 400 // labels of 30+ characters
	LegendItemWidthL  = 300 // labels of 20+ characters
	LegendItemWidthM  = 200 // labels of 10+ characters
	LegendItemWidthS  = 110 // everything shorter

	LegendBaseHeight = 15
	LegendRowHeight  = 30
)
