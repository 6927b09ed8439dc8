// Package accrete declares data entities as typed field descriptors and
// grows the relational schema they need at runtime: tables that do not
// exist are created, missing columns are added, and nothing present is ever
// altered or dropped.
package accrete

import (
	"github.com/okulov/accrete/core"
	"github.com/okulov/accrete/lock"
	"github.com/okulov/accrete/schema"
)

// Re-export core types and functions
type DB = core.DB
type Options = core.Options
type Gateway = core.Gateway
type Migrator = core.Migrator
type ExecutionError = core.ExecutionError

var (
	Open        = core.Open
	NewMigrator = core.NewMigrator
)

// Re-export schema types and functions
type Schema = schema.Schema
type Definition = schema.Definition
type Field = schema.Field
type Option = schema.Option
type Record = schema.Record
type ConfigurationError = schema.ConfigurationError

var (
	Define     = schema.Define
	MustDefine = schema.MustDefine
	NewRecord  = schema.NewRecord

	// Field constructors
	Integer  = schema.Integer
	String   = schema.String
	Boolean  = schema.Boolean
	DateTime = schema.DateTime
	Float    = schema.Float
	Text     = schema.Text
	Selector = schema.Selector

	// Field attributes
	Required    = schema.Required
	Unique      = schema.Unique
	Indexed     = schema.Indexed
	PrimaryKey  = schema.PrimaryKey
	Default     = schema.Default
	DisplayName = schema.DisplayName
)

// Re-export the migration lock
type Locker = lock.Locker

var NewRedisLock = lock.NewRedis
