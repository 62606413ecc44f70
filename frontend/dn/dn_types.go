package dn

import "dockhand/frontend/shared/tableview"

type DNView struct {
	ID           int64  `bun:"id"`
	DNNumber     string `bun:"dn_number"`
	SupplierName string `bun:"supplier_name"`
	BPCode       string `bun:"bp_code"`
	ItemCount    int64  `bun:"item_count"`
	TotalQty     int64  `bun:"total_qty"`
	ScannedQty   int64  `bun:"scanned_qty"`
	CreatedAtUK  string `bun:"created_at_uk"`
}

type DNItemView struct {
	PartNo     string `bun:"part_no"`
	TotalQty   int64  `bun:"total_qty"`
	ScannedQty int64  `bun:"scanned_qty"`
	QtyPerBox  int64  `bun:"qty_per_box"`
}

type DNDocumentData struct {
	ID           int64
	DNNumber     string
	SupplierName string
	BPCode       string
	Items        []DNItemView
}

type PageData struct {
	Result       tableview.Result
	State        tableview.State
	IsAdmin      bool
	Status       string
	ErrorMessage string
}
