// Package catalog holds the fixed service catalog offered by the shop.
package catalog

// Service describes a bookable tailoring service.
type Service struct {
	ID     string `json:"id"`
	NameES string `json:"name_es"`
	NameEN string `json:"name_en"`
}

// services is the fixed catalog. Order matters: it is the order the site
// renders the cards in.
var services = []Service{
	{ID: "alteraciones-basicas", NameES: "Alteraciones Básicas", NameEN: "Basic Alterations"},
	{ID: "reparaciones", NameES: "Reparaciones", NameEN: "Repairs"},
	{ID: "ajustes-formales", NameES: "Ajustes Formales", NameEN: "Formal Adjustments"},
	{ID: "vestidos-novia", NameES: "Vestidos de Novia", NameEN: "Bridal Dresses"},
	{ID: "diseno-personalizado", NameES: "Diseño Personalizado", NameEN: "Custom Design"},
	{ID: "hemming", NameES: "Servicio de Dobladillo", NameEN: "Hemming Service"},
	{ID: "zipper", NameES: "Reparación de Cierres", NameEN: "Zipper Repair"},
	{ID: "resizing", NameES: "Ajuste de Talla", NameEN: "Clothing Resizing"},
	{ID: "custom", NameES: "Ropa a Medida", NameEN: "Custom Clothing"},
	{ID: "alterations", NameES: "Alteraciones Generales", NameEN: "General Alterations"},
}

var byID = func() map[string]Service {
	m := make(map[string]Service, len(services))
	for _, s := range services {
		m[s.ID] = s
	}
	return m
}()

// All returns the catalog in display order.
func All() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// Valid reports whether id names a catalog service.
func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

// DisplayName returns the localized name for a service identifier. Unknown
// identifiers are returned verbatim, matching how the site renders them.
func DisplayName(id, lang string) string {
	s, ok := byID[id]
	if !ok {
		return id
	}
	if lang == "en" {
		return s.NameEN
	}
	return s.NameES
}
