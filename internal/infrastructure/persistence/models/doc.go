// Package models contains GORM persistence models that map to database tables.
// The models are kept apart from domain entities so the domain layer stays free
// of ORM tags. Each model converts with ToDomain and FromDomain.
//
// The schema itself is owned by the SQL files under migrations/. Struct tags
// mirror it closely enough for sqlite AutoMigrate in repository tests.
package models
