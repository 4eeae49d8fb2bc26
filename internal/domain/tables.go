package domain

var Tables = []interface{}{
	// System
	&SysAccount{},
	&SysConfig{},
	&SysOprLog{},
	// ERP collections
	&Product{},
	&Service{},
	&Component{},
	&Sale{},
}

// Collections are the entity collection names understood by the sync
// gateway, matching the remote document store paths.
const (
	CollectionProducts   = "products"
	CollectionServices   = "services"
	CollectionComponents = "components"
	CollectionSales      = "sales"
)
