package models

import "strconv"

// Loan is a peminjaman record. Loans are never deleted, only re-statused.
type Loan struct {
	ID                int64  `json:"id"`
	UUID              string `json:"uuid"`
	BorrowerName      string `json:"nama_peminjam"`
	ItemID            int64  `json:"barang_id"`
	ItemName          string `json:"barang_name,omitempty"`
	Quantity          int    `json:"jumlah"`
	BorrowedDate      Date   `json:"tanggal_pinjam"`
	PlannedReturnDate Date   `json:"tanggal_kembali_direncanakan"`
	AttachmentPath    string `json:"path_file_peminjaman"`
	Status            Status `json:"status"`
}

// Ref is the identifier used in /loans/{ref}; the uuid when known.
func (l Loan) Ref() string {
	if l.UUID != "" {
		return l.UUID
	}
	if l.ID != 0 {
		return strconv.FormatInt(l.ID, 10)
	}
	return ""
}
