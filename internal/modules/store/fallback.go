package store

import "github.com/google/uuid"

// Fixed IDs for the demo stores so fallback catalog items can reference them.
var (
	FallbackStoreAni   = uuid.MustParse("a1000000-0000-0000-0000-000000000001")
	FallbackStoreBudi  = uuid.MustParse("a1000000-0000-0000-0000-000000000002")
	FallbackStoreKedai = uuid.MustParse("a1000000-0000-0000-0000-000000000003")
)

// fallbackStores is the hardcoded store list served when the database is
// unreachable or empty, for offline and demo operation.
var fallbackStores = []*Store{
	{
		ID:          FallbackStoreAni,
		Name:        "Kantin Bu Ani",
		Slug:        "kantin-bu-ani",
		Tagline:     "Legendaris sejak 1995!",
		Description: "Kantin legendaris dengan menu nasi goreng terenak! Masakan rumahan yang lezat dengan harga terjangkau.",
		Logo:        "asset/img/6.png",
		Location:    "Gedung A, Lantai 1",
		Hours:       "07:00 - 16:00",
		Speciality:  "Makanan Berat",
		IsOpen:      true,
	},
	{
		ID:          FallbackStoreBudi,
		Name:        "Warung Mas Budi",
		Slug:        "warung-mas-budi",
		Tagline:     "Spesialis Mie & Bakso!",
		Description: "Warung favorit mahasiswa dengan porsi jumbo dan harga ramah kantong. Menu andalan: Mie Ayam Jumbo!",
		Logo:        "asset/img/7.png",
		Location:    "Gedung B, Lantai 2",
		Hours:       "08:00 - 17:00",
		Speciality:  "Mie & Pasta",
		IsOpen:      true,
	},
	{
		ID:          FallbackStoreKedai,
		Name:        "Kedai Kopi & Snack",
		Slug:        "kedai-kopi-snack",
		Tagline:     "Coffee & Hangout Spot!",
		Description: "Coffee shop modern dengan berbagai pilihan kopi, minuman segar, dan snack. WiFi gratis & colokan listrik!",
		Logo:        "asset/img/8.png",
		Location:    "Gedung C, Lantai 1",
		Hours:       "07:30 - 18:00",
		Speciality:  "Kopi & Snack",
		IsOpen:      true,
	},
}

// FallbackStores returns copies of the demo store list.
func FallbackStores() []*Store {
	out := make([]*Store, len(fallbackStores))
	for i, s := range fallbackStores {
		copy := *s
		out[i] = &copy
	}
	return out
}
