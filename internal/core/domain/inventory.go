package domain

// StockLevel is a single item entry as seen by readers of an Inventory.
type StockLevel struct {
	Item     string
	Quantity int
}

// Inventory maps item names to quantities and remembers insertion order.
// Deleting an item and setting it again moves it to the end.
type Inventory struct {
	order []string
	stock map[string]int
	// Version counts mutations; snapshots carry it so persistence can drop stale writes.
	Version int64
}

func NewInventory() *Inventory {
	return &Inventory{stock: make(map[string]int)}
}

func (inv *Inventory) Get(item string) (int, bool) {
	qty, ok := inv.stock[item]
	return qty, ok
}

func (inv *Inventory) Has(item string) bool {
	_, ok := inv.stock[item]
	return ok
}

// Set stores qty for item, appending item to the order if it is new.
func (inv *Inventory) Set(item string, qty int) {
	if inv.stock == nil {
		inv.stock = make(map[string]int)
	}
	if _, ok := inv.stock[item]; !ok {
		inv.order = append(inv.order, item)
	}
	inv.stock[item] = qty
}

func (inv *Inventory) Delete(item string) {
	if _, ok := inv.stock[item]; !ok {
		return
	}
	delete(inv.stock, item)
	for i, name := range inv.order {
		if name == item {
			inv.order = append(inv.order[:i], inv.order[i+1:]...)
			break
		}
	}
}

func (inv *Inventory) Len() int {
	return len(inv.order)
}

// Names returns item names in insertion order.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.order))
	copy(names, inv.order)
	return names
}

// Items returns every entry in insertion order.
func (inv *Inventory) Items() []StockLevel {
	items := make([]StockLevel, 0, len(inv.order))
	for _, name := range inv.order {
		items = append(items, StockLevel{Item: name, Quantity: inv.stock[name]})
	}
	return items
}

func (inv *Inventory) Clone() *Inventory {
	clone := &Inventory{
		order:   make([]string, len(inv.order)),
		stock:   make(map[string]int, len(inv.stock)),
		Version: inv.Version,
	}
	copy(clone.order, inv.order)
	for k, v := range inv.stock {
		clone.stock[k] = v
	}
	return clone
}

// Equal reports whether both inventories hold the same entries in the same order.
// Version is ignored. A nil inventory only equals another nil one.
func (inv *Inventory) Equal(other *Inventory) bool {
	if inv == nil || other == nil {
		return inv == other
	}
	if inv.Len() != other.Len() {
		return false
	}
	for i, name := range inv.order {
		if other.order[i] != name || other.stock[name] != inv.stock[name] {
			return false
		}
	}
	return true
}
