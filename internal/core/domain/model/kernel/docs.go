// Package kernel contains shared value objects used across the order domain.
//
// The kernel holds primitives that are not specific to any single aggregate
// but are required by all of them — currently the UUID value object that
// identifies orders, order items, and status history entries.
//
// Value objects in this package are immutable, validated at construction,
// and safe for concurrent use.
package kernel
