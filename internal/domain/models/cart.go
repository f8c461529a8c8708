package models

// CartLine is one (item, quantity) pairing in a shopping cart. A cart
// holds at most one line per item id; quantities below 1 never persist,
// dropping to zero removes the line.
type CartLine struct {
	ItemID   string `bson:"item_id" json:"itemId"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// Toast is a transient, auto-dismissing notification produced by cart
// mutations. ID is the unix-millisecond creation timestamp.
type Toast struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
