// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM tags; each model converts to and from its
// domain entity with ToDomain and FromDomain.
//
// Files by bounded context:
//   - base.go: BaseModel with the auto-increment ID and timestamps
//   - channel.go, geo.go, tax.go, shipping.go: store settings
//   - catalog.go: facets, products, variants, prices, collections
//   - identity.go: users, roles, customers, administrators, sessions
//   - order.go: orders and order lines
package models
