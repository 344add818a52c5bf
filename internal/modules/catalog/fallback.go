package catalog

import (
	"github.com/google/uuid"

	"github.com/kantin-app/kantin-backend/internal/modules/store"
)

func fallbackID(n byte) uuid.UUID {
	id := uuid.MustParse("b2000000-0000-0000-0000-000000000000")
	id[15] = n
	return id
}

// fallbackMenu is the hardcoded menu served when the database is unreachable
// or empty, for offline and demo operation. It mirrors the three demo stores.
var fallbackMenu = []*Item{
	// Kantin Bu Ani
	{
		ID: fallbackID(1), StoreID: store.FallbackStoreAni,
		Name: "Nasi Goreng", Price: 15000, Image: "asset/img/nasgor.png",
		Description: "Nasi goreng wangi, berbumbu pas, dimasak dengan api besar.",
		Stock:       50, IsFeatured: true, SalesCount: 150, IsAvailable: true,
	},
	{
		ID: fallbackID(2), StoreID: store.FallbackStoreAni,
		Name: "Nasi Ayam Geprek", Price: 18000, Image: "asset/img/ayamgeprek.png",
		Description: "Ayam goreng crispy dengan sambal geprek pedas mantap!",
		Stock:       50, IsFeatured: true, SalesCount: 120, IsAvailable: true,
	},
	{
		ID: fallbackID(3), StoreID: store.FallbackStoreAni,
		Name: "Nasi Rendang", Price: 22000, Image: "asset/img/rendang.png",
		Description: "Rendang daging empuk dengan bumbu rempah khas Padang.",
		Stock:       30, IsFeatured: false, SalesCount: 80, IsAvailable: true,
	},
	// Warung Mas Budi
	{
		ID: fallbackID(4), StoreID: store.FallbackStoreBudi,
		Name: "Mie Baso", Price: 15000, Image: "asset/img/baso.png",
		Description: "Mie kenyal, kuah gurih, dan baso lembut yang bikin ketagihan!",
		Stock:       50, IsFeatured: true, SalesCount: 200, IsAvailable: true,
	},
	{
		ID: fallbackID(5), StoreID: store.FallbackStoreBudi,
		Name: "Mie Ayam", Price: 12000, Image: "asset/img/mieayam.png",
		Description: "Mie ayam spesial dengan topping ayam suwir yang lezat!",
		Stock:       50, IsFeatured: true, SalesCount: 180, IsAvailable: true,
	},
	{
		ID: fallbackID(6), StoreID: store.FallbackStoreBudi,
		Name: "Mie Goreng Seafood", Price: 20000, Image: "asset/img/mieseafod.png",
		Description: "Mie goreng dengan topping seafood segar.",
		Stock:       25, IsFeatured: false, SalesCount: 90, IsAvailable: true,
	},
	{
		ID: fallbackID(7), StoreID: store.FallbackStoreBudi,
		Name: "Spaghetti Carbonara", Price: 25000, Image: "asset/img/SpaghettiCarbonara.png",
		Description: "Spaghetti dengan saus carbonara creamy.",
		Stock:       20, IsFeatured: false, SalesCount: 60, IsAvailable: true,
	},
	// Kedai Kopi & Snack
	{
		ID: fallbackID(8), StoreID: store.FallbackStoreKedai,
		Name: "Gorengan", Price: 5000, Image: "asset/img/gorengan.png",
		Description: "Gorengan crispy aneka isi - tahu, tempe, pisang!",
		Stock:       100, IsFeatured: false, SalesCount: 250, IsAvailable: true,
	},
	{
		ID: fallbackID(9), StoreID: store.FallbackStoreKedai,
		Name: "Cappuccino", Price: 15000, Image: "asset/img/Cappuccino.png",
		Description: "Kopi cappuccino dengan foam susu tebal.",
		Stock:       40, IsFeatured: true, SalesCount: 140, IsAvailable: true,
	},
	{
		ID: fallbackID(10), StoreID: store.FallbackStoreKedai,
		Name: "Thai Tea", Price: 12000, Image: "asset/img/ThaiTea.png",
		Description: "Thai tea original dengan susu.",
		Stock:       40, IsFeatured: true, SalesCount: 170, IsAvailable: true,
	},
}

// FallbackMenu returns copies of the demo menu, optionally filtered by store.
func FallbackMenu(storeID string) []*Item {
	var out []*Item
	for _, it := range fallbackMenu {
		if storeID != "" && it.StoreID.String() != storeID {
			continue
		}
		copy := *it
		out = append(out, &copy)
	}
	return out
}
