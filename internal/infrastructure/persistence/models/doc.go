// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts with ToDomain and
// a ...ModelFromDomain constructor, and repositories only ever touch models.
//
// Files follow the bounded contexts: identity.go (tenants, roles, users),
// crm.go, work.go, hr.go, finance.go and marketing.go.
package models
