package ops

// Order lifecycle statuses. Served and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

var orderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusCancelled,
}

func validOrderStatus(status string) bool {
	for _, s := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// activeOrder reports whether an order is still in flight from the waiter's
// point of view.
func activeOrder(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady:
		return true
	}
	return false
}

// Table statuses.
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
)

var tableStatuses = []string{
	TableStatusAvailable,
	TableStatusOccupied,
	TableStatusReserved,
}

func validTableStatus(status string) bool {
	for _, s := range tableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Seat statuses. Reserved is a table state only; a seat is either free or
// taken.
const (
	SeatStatusAvailable = "available"
	SeatStatusOccupied  = "occupied"
)

func validSeatStatus(status string) bool {
	switch status {
	case SeatStatusAvailable, SeatStatusOccupied:
		return true
	}
	return false
}

// Console roles.
const (
	RoleAdmin   = "admin"
	RoleChef    = "chef"
	RoleCashier = "cashier"
	RoleWaiter  = "waiter"
)

var consoleRoles = []string{RoleAdmin, RoleChef, RoleCashier, RoleWaiter}

func validRole(role string) bool {
	for _, r := range consoleRoles {
		if r == role {
			return true
		}
	}
	return false
}
