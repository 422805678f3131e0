// Package schema has models, typed constants and records shared by all parts of paddock.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// EntityKind represents the kind of entity an image is resolved for.
	EntityKind string

	// Namespace represents a logical cache namespace.
	Namespace string

	// ImageSource records which lookup tier produced an image.
	ImageSource string

	// LoadOutcome represents the terminal state of a season load.
	LoadOutcome string
)

// Unknown replaces any field the upstream feed omitted.
const Unknown = "unknown"

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt"
	RedisBackend      DatabaseBackend = "redis"
	MemoryBackend     DatabaseBackend = "memory"
	NoneBackend       DatabaseBackend = "none"
)

// All entity kinds supported.
const (
	DriverEntity      EntityKind = "driver"
	ConstructorEntity EntityKind = "constructor"
)

// All cache namespaces.
const (
	JSONNamespace  Namespace = "json"
	TextNamespace  Namespace = "text"
	ImageNamespace Namespace = "image"
)

// All image sources.
const (
	CacheSource  ImageSource = "cache"
	DirectSource ImageSource = "direct"
	PagesSource  ImageSource = "pages"
	SearchSource ImageSource = "search"
	NoSource     ImageSource = "none"
)

// All load outcomes.
const (
	RunningOutcome    LoadOutcome = "running"
	CompletedOutcome  LoadOutcome = "completed"
	SupersededOutcome LoadOutcome = "superseded"
	FailedOutcome     LoadOutcome = "failed"
)

// AllNamespaces lists every cache namespace in a stable order.
var AllNamespaces = []Namespace{JSONNamespace, TextNamespace, ImageNamespace}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	RedisBackend:      {},
	MemoryBackend:     {},
	NoneBackend:       {},
}

// ValidLoadBackends lists the backends that can hold load bookkeeping tables.
var ValidLoadBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidEntityKinds lists all valid entity kinds.
var ValidEntityKinds = map[EntityKind]struct{}{
	DriverEntity:      {},
	ConstructorEntity: {},
}

// IsSQL reports whether the backend is served by database/sql.
func (b DatabaseBackend) IsSQL() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend:
		return true
	default:
		return false
	}
}
