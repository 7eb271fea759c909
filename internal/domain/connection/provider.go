package connection

// ---------------------------------------------------------------------------
// ProviderKind
// ---------------------------------------------------------------------------

// ProviderKind is the category of external system a credential connects.
// A seller holds at most one credential per kind.
type ProviderKind string

const (
	// ProviderKindMessaging covers chat channels used to talk to buyers
	ProviderKindMessaging ProviderKind = "messaging"
	// ProviderKindCatalog covers systems that own a product catalog
	ProviderKindCatalog ProviderKind = "catalog"
)

// IsValid returns true if the provider kind is valid
func (k ProviderKind) IsValid() bool {
	return k == ProviderKindMessaging || k == ProviderKindCatalog
}

// String returns the string representation of ProviderKind
func (k ProviderKind) String() string {
	return string(k)
}

// ---------------------------------------------------------------------------
// ProviderCode
// ---------------------------------------------------------------------------

// ProviderCode identifies a concrete provider integration
type ProviderCode string

const (
	// ProviderCodeWhatsAppCloud is the WhatsApp Business Cloud API
	ProviderCodeWhatsAppCloud ProviderCode = "WHATSAPP_CLOUD"
	// ProviderCodeWhatsAppSandbox is the shared sandbox number that needs a
	// join-keyword handshake before two-way messaging works
	ProviderCodeWhatsAppSandbox ProviderCode = "WHATSAPP_SANDBOX"
	// ProviderCodeShopify is the Shopify Admin API product export
	ProviderCodeShopify ProviderCode = "SHOPIFY"
)

// IsValid returns true if the provider code is valid
func (c ProviderCode) IsValid() bool {
	switch c {
	case ProviderCodeWhatsAppCloud, ProviderCodeWhatsAppSandbox, ProviderCodeShopify:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProviderCode
func (c ProviderCode) String() string {
	return string(c)
}

// Kind returns the provider kind this code belongs to
func (c ProviderCode) Kind() ProviderKind {
	switch c {
	case ProviderCodeWhatsAppCloud, ProviderCodeWhatsAppSandbox:
		return ProviderKindMessaging
	case ProviderCodeShopify:
		return ProviderKindCatalog
	default:
		return ""
	}
}

// DisplayName returns a human-readable name for the provider
func (c ProviderCode) DisplayName() string {
	switch c {
	case ProviderCodeWhatsAppCloud:
		return "WhatsApp Business"
	case ProviderCodeWhatsAppSandbox:
		return "WhatsApp Sandbox"
	case ProviderCodeShopify:
		return "Shopify"
	default:
		return string(c)
	}
}
