// Package catalog contains the local product catalog domain: the Item
// aggregate, the repository port, and the Reconciler domain service that
// merges a remote provider snapshot into the local catalog.
//
// Items come from two sources. Native items are created and edited by the
// seller directly. External items mirror a product owned by a catalog
// provider (e.g. a Shopify store); they carry the provider's identifier as
// an external reference and are mutated only by the Reconciler and by the
// disconnect path, never by manual edits.
package catalog
