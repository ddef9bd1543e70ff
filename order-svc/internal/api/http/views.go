package httpapi

import "little-lemon/order-svc/internal/domain"

const dateLayout = "2006-01-02"

type categoryView struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type menuItemView struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Price    string       `json:"price"`
	Featured bool         `json:"featured"`
	Category categoryView `json:"category"`
}

type menuItemRefView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type cartLineView struct {
	ID        int64           `json:"id"`
	MenuItem  menuItemRefView `json:"menuitem"`
	Quantity  int             `json:"quantity"`
	UnitPrice string          `json:"unit_price"`
	Price     string          `json:"price"`
}

type orderUserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type orderItemView struct {
	ID        int64           `json:"id"`
	MenuItem  menuItemRefView `json:"menuitem"`
	Quantity  int             `json:"quantity"`
	UnitPrice string          `json:"unit_price"`
	Price     string          `json:"price"`
}

type orderView struct {
	ID           int64           `json:"id"`
	User         orderUserView   `json:"user"`
	DeliveryCrew *int64          `json:"delivery_crew"`
	Status       bool            `json:"status"`
	Total        string          `json:"total"`
	Date         string          `json:"date"`
	OrderItems   []orderItemView `json:"order_items,omitempty"`
}

func renderCategory(c domain.Category) categoryView {
	return categoryView{ID: c.ID, Slug: c.Slug, Title: c.Title}
}

func renderMenuItem(m domain.MenuItem) menuItemView {
	return menuItemView{
		ID:       m.ID,
		Title:    m.Title,
		Price:    m.Price.StringFixed(2),
		Featured: m.Featured,
		Category: renderCategory(m.Category),
	}
}

func renderMenuItemRef(m domain.MenuItem) menuItemRefView {
	return menuItemRefView{ID: m.ID, Title: m.Title, Price: m.Price.StringFixed(2)}
}

func renderUser(u domain.User) userView {
	return userView{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

func renderCartLine(l domain.CartLine) cartLineView {
	return cartLineView{
		ID:        l.ID,
		MenuItem:  renderMenuItemRef(l.MenuItem),
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice.StringFixed(2),
		Price:     l.Price.StringFixed(2),
	}
}

func renderOrder(o domain.Order) orderView {
	v := orderView{
		ID:           o.ID,
		User:         orderUserView{ID: o.User.ID, Username: o.User.Username},
		DeliveryCrew: o.DeliveryCrew,
		Status:       o.Status,
		Total:        o.Total.StringFixed(2),
		Date:         o.Date.Format(dateLayout),
	}
	for _, item := range o.Items {
		v.OrderItems = append(v.OrderItems, orderItemView{
			ID:        item.ID,
			MenuItem:  renderMenuItemRef(item.MenuItem),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Price:     item.Price.StringFixed(2),
		})
	}
	return v
}

func renderList[T any, V any](items []T, render func(T) V) []V {
	views := make([]V, 0, len(items))
	for _, item := range items {
		views = append(views, render(item))
	}
	return views
}
