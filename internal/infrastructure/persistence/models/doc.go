// Package models contains GORM persistence models and their mapping
// to and from domain entities.
package models
