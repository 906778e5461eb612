package pricing

import "strings"

const MessageUnknownVoucher = "kode voucher tidak ditemukan"

type Voucher struct {
	Code    string `json:"code"`
	Percent int64  `json:"percent"`
	Message string `json:"message"`
}

var vouchers = map[string]Voucher{
	"UNIV25": {
		Code:    "UNIV25",
		Percent: 25,
		Message: "Diskon 25% biaya iklan untuk civitas universitas mitra",
	},
	"EARLYBIRD20": {
		Code:    "EARLYBIRD20",
		Percent: 20,
		Message: "Diskon 20% biaya iklan untuk pendaftar awal",
	},
	"RA2025": {
		Code:    "RA2025",
		Percent: 10,
		Message: "Diskon 10% biaya iklan kode referral research assistant 2025",
	},
}

// LookupVoucher matches the code exactly, ignoring case.
func LookupVoucher(code string) (Voucher, bool) {
	voucher, ok := vouchers[strings.ToUpper(code)]
	return voucher, ok
}

func Vouchers() []Voucher {
	list := make([]Voucher, 0, len(vouchers))
	for _, code := range []string{"UNIV25", "EARLYBIRD20", "RA2025"} {
		list = append(list, vouchers[code])
	}
	return list
}
