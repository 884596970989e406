package market

// BookLevel is one price level of the synthetic order book.
type BookLevel struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// Book holds synthetic depth around an instrument's current price.
// It is display data only; fills never consult it.
type Book struct {
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

// bookStep spaces levels at 0.1% of price so low-priced instruments
// never produce non-positive bid levels.
const bookStep = 0.001

// Book generates bid levels below and ask levels above the
// instrument's current price with random sizes up to 10 units.
func (f *Feed) Book(inst *Instrument, levels int) Book {
	if levels <= 0 {
		levels = 10
	}
	step := inst.Price * bookStep

	book := Book{
		Bids: make([]BookLevel, 0, levels),
		Asks: make([]BookLevel, 0, levels),
	}
	for i := 0; i < levels; i++ {
		offset := float64(i+1) * step
		book.Bids = append(book.Bids, BookLevel{Price: inst.Price - offset, Amount: f.rng.Float64() * 10})
		book.Asks = append(book.Asks, BookLevel{Price: inst.Price + offset, Amount: f.rng.Float64() * 10})
	}
	return book
}
