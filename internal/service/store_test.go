package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

// memStore хранит данные в памяти для тестов сервиса. WithTx откатывает изменения при ошибке.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	meals       map[string]model.Meal
	restaurants map[string]model.Restaurant
	orders      map[string]model.Order
	users       map[string]model.User

	seq int
	now time.Time

	// failOn заставляет метод с указанным именем вернуть ошибку.
	failOn  string
	failErr error
}

var _ Repository = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		meals:       map[string]model.Meal{},
		restaurants: map[string]model.Restaurant{},
		orders:      map[string]model.Order{},
		users:       map[string]model.User{},
		now:         time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) fail(name string) error {
	if m.failOn == name {
		return m.failErr
	}
	return nil
}

func (m *memStore) tick() time.Time {
	m.seq++
	return m.now.Add(time.Duration(m.seq) * time.Second)
}

func (m *memStore) snapshot() *memStore {
	c := &memStore{
		meals:       make(map[string]model.Meal, len(m.meals)),
		restaurants: make(map[string]model.Restaurant, len(m.restaurants)),
		orders:      make(map[string]model.Order, len(m.orders)),
		users:       make(map[string]model.User, len(m.users)),
		seq:         m.seq,
	}
	for k, v := range m.meals {
		c.meals[k] = v
	}
	for k, v := range m.restaurants {
		v.Menu = slices.Clone(v.Menu)
		c.restaurants[k] = v
	}
	for k, v := range m.orders {
		v.Items = slices.Clone(v.Items)
		c.orders[k] = v
	}
	for k, v := range m.users {
		c.users[k] = v
	}
	return c
}

func (m *memStore) restore(c *memStore) {
	m.meals, m.restaurants, m.orders, m.users, m.seq = c.meals, c.restaurants, c.orders, c.users, c.seq
}

func (m *memStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	saved := m.snapshot()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.restore(saved)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Ping(ctx context.Context) error { return m.fail("Ping") }

func (m *memStore) Close() error { return nil }

func sortMeals(ms []model.Meal) []model.Meal {
	sort.Slice(ms, func(i, j int) bool { return ms[i].Name < ms[j].Name })
	return ms
}

func (m *memStore) ListMeals(ctx context.Context, f model.MealFilter) ([]model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListMeals"); err != nil {
		return nil, err
	}
	var out []model.Meal
	for _, meal := range m.meals {
		if f.Match(meal) {
			out = append(out, meal)
		}
	}
	return sortMeals(out), nil
}

func (m *memStore) ListSelectableMeals(ctx context.Context, sellerID string) ([]model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Meal
	for _, meal := range m.meals {
		if meal.SelectableBy(sellerID) {
			out = append(out, meal)
		}
	}
	return sortMeals(out), nil
}

func (m *memStore) ListCustomMeals(ctx context.Context, sellerID string) ([]model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Meal
	for _, meal := range m.meals {
		if meal.OwnedBy(sellerID) {
			out = append(out, meal)
		}
	}
	return sortMeals(out), nil
}

func (m *memStore) GetMeal(ctx context.Context, id string) (*model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meal, ok := m.meals[id]
	if !ok {
		return nil, repository.ErrMealNotFound
	}
	return &meal, nil
}

func (m *memStore) GetMealsByIDs(ctx context.Context, ids []string) ([]model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetMealsByIDs"); err != nil {
		return nil, err
	}
	var out []model.Meal
	for _, id := range ids {
		if meal, ok := m.meals[id]; ok {
			out = append(out, meal)
		}
	}
	return out, nil
}

func (m *memStore) CreateMeal(ctx context.Context, meal *model.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meal.CreatedAt = m.tick()
	meal.UpdatedAt = meal.CreatedAt
	m.meals[meal.ID] = *meal
	return nil
}

func (m *memStore) UpdateCustomMeal(ctx context.Context, meal *model.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.meals[meal.ID]
	if !ok || meal.SellerID == nil || !cur.OwnedBy(*meal.SellerID) {
		return repository.ErrMealNotFound
	}
	meal.CreatedAt = cur.CreatedAt
	meal.UpdatedAt = m.tick()
	m.meals[meal.ID] = *meal
	return nil
}

func (m *memStore) DeleteCustomMeal(ctx context.Context, id, sellerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.meals[id]
	if !ok || !cur.OwnedBy(sellerID) {
		return repository.ErrMealNotFound
	}
	for rid, r := range m.restaurants {
		r.Menu = slices.DeleteFunc(slices.Clone(r.Menu), func(it model.MenuItem) bool { return it.MealID == id })
		m.restaurants[rid] = r
	}
	delete(m.meals, id)
	return nil
}

func (m *memStore) CreateRestaurant(ctx context.Context, r *model.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.restaurants {
		if cur.SellerID == r.SellerID {
			return repository.ErrRestaurantExists
		}
	}
	r.CreatedAt = m.tick()
	r.UpdatedAt = r.CreatedAt
	m.restaurants[r.ID] = *r
	return nil
}

func (m *memStore) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetRestaurant"); err != nil {
		return nil, err
	}
	r, ok := m.restaurants[id]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}
	r.Menu = slices.Clone(r.Menu)
	return &r, nil
}

func (m *memStore) GetRestaurantBySeller(ctx context.Context, sellerID string) (*model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.restaurants {
		if r.SellerID == sellerID {
			r.Menu = slices.Clone(r.Menu)
			return &r, nil
		}
	}
	return nil, repository.ErrRestaurantNotFound
}

func (m *memStore) LockRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	return m.GetRestaurant(ctx, id)
}

func (m *memStore) LockRestaurantBySeller(ctx context.Context, sellerID string) (*model.Restaurant, error) {
	return m.GetRestaurantBySeller(ctx, sellerID)
}

func (m *memStore) ListRestaurants(ctx context.Context, city string) ([]model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Restaurant
	for _, r := range m.restaurants {
		if city == "" || r.City == city {
			r.Menu = nil
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateRestaurantProfile(ctx context.Context, id string, p model.RestaurantProfile) (*model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restaurants[id]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}
	r.Name, r.Phone, r.Address, r.City = p.Name, p.Phone, p.Address, p.City
	r.UpdatedAt = m.tick()
	m.restaurants[id] = r
	r.Menu = nil
	return &r, nil
}

func (m *memStore) DeleteRestaurant(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.restaurants[id]; !ok {
		return repository.ErrRestaurantNotFound
	}
	delete(m.restaurants, id)
	return nil
}

func (m *memStore) ReplaceMenu(ctx context.Context, restaurantID string, items []model.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ReplaceMenu"); err != nil {
		return err
	}
	r, ok := m.restaurants[restaurantID]
	if !ok {
		return repository.ErrRestaurantNotFound
	}
	r.Menu = slices.Clone(items)
	r.UpdatedAt = m.tick()
	m.restaurants[restaurantID] = r
	return nil
}

func (m *memStore) ListMenuEntries(ctx context.Context, restaurantID string, onlyAvailable bool) ([]model.MenuEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restaurants[restaurantID]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}
	out := []model.MenuEntry{}
	for _, it := range r.Menu {
		meal, ok := m.meals[it.MealID]
		if !ok || (onlyAvailable && !it.IsAvailable) {
			continue
		}
		out = append(out, model.MenuEntry{Meal: meal, Price: it.Price, IsAvailable: it.IsAvailable})
	}
	return out, nil
}

func (m *memStore) CountOrdersByStatus(ctx context.Context, restaurantID string, statuses []model.OrderStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && slices.Contains(statuses, o.Status) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) InsertOrder(ctx context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertOrder"); err != nil {
		return err
	}
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	stored := *o
	stored.Items = slices.Clone(o.Items)
	m.orders[o.ID] = stored
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Items = slices.Clone(o.Items)
	return &o, nil
}

func (m *memStore) listOrders(match func(model.Order) bool, statuses []model.OrderStatus) []model.Order {
	out := []model.Order{}
	for _, o := range m.orders {
		if !match(o) {
			continue
		}
		if len(statuses) > 0 && !slices.Contains(statuses, o.Status) {
			continue
		}
		o.Items = slices.Clone(o.Items)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListCustomerOrders(ctx context.Context, customerID string, statuses []model.OrderStatus) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listOrders(func(o model.Order) bool { return o.CustomerID == customerID }, statuses), nil
}

func (m *memStore) ListRestaurantOrders(ctx context.Context, restaurantID string, statuses []model.OrderStatus) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listOrders(func(o model.Order) bool { return o.RestaurantID == restaurantID }, statuses), nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return time.Time{}, repository.ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = m.tick()
	m.orders[id] = o
	return o.UpdatedAt, nil
}

func (m *memStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *memStore) UpsertPaymentProfile(ctx context.Context, userID string, role model.Role, p model.PaymentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = model.User{ID: userID, Role: role, Payment: &p}
	return nil
}

func (m *memStore) RestaurantStats(ctx context.Context, restaurantID string, topN int) (*model.RestaurantStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := &model.RestaurantStats{
		RestaurantID:   restaurantID,
		OrdersByStatus: map[model.OrderStatus]int64{},
		TopMeals:       []model.MealStat{},
	}
	for _, s := range model.OrderStatuses {
		st.OrdersByStatus[s] = 0
	}

	byMeal := map[string]*model.MealStat{}
	for _, o := range m.listOrders(func(o model.Order) bool { return o.RestaurantID == restaurantID }, nil) {
		st.TotalOrders++
		st.RevenueTotal = st.RevenueTotal.Add(o.Total)
		st.OrdersByStatus[o.Status]++
		for _, li := range o.Items {
			ms, ok := byMeal[li.MealID]
			if !ok {
				ms = &model.MealStat{MealID: li.MealID, Name: li.NameSnapshot}
				byMeal[li.MealID] = ms
			}
			ms.TotalQuantity += int64(li.Quantity)
			ms.TotalRevenue = ms.TotalRevenue.Add(li.LineTotal())
		}
	}

	for _, ms := range byMeal {
		st.TopMeals = append(st.TopMeals, *ms)
	}
	sort.Slice(st.TopMeals, func(i, j int) bool {
		if st.TopMeals[i].TotalQuantity != st.TopMeals[j].TotalQuantity {
			return st.TopMeals[i].TotalQuantity > st.TopMeals[j].TotalQuantity
		}
		return st.TopMeals[i].MealID < st.TopMeals[j].MealID
	})
	if len(st.TopMeals) > topN {
		st.TopMeals = st.TopMeals[:topN]
	}

	return st, nil
}
