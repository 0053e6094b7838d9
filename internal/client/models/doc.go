// Package models defines the client-side data model: the authenticated
// Session, catalog entries (potato varieties), the hydrated CollectionView,
// connectivity status and the ViewState handed to the presentation layer.
package models
