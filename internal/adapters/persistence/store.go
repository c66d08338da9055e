// Package persistence implements the SnapshotStore port over database/sql.
// Writes replace the whole snapshot inside one transaction, so the tables
// always hold a consistent state set even after a crash mid-save.
package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/ports"
)

type dialect int

const (
	dialectSqlite dialect = iota
	dialectPostgres
)

// Store persists snapshots to a SQL database. Queries are written with `?`
// placeholders and rebound to $N for Postgres.
type Store struct {
	db      *sql.DB
	dialect dialect
}

var _ ports.SnapshotStore = (*Store)(nil)

func NewSqliteStore(db *sql.DB) *Store {
	return &Store{db: db, dialect: dialectSqlite}
}

func NewPostgresStore(db *sql.DB) *Store {
	return &Store{db: db, dialect: dialectPostgres}
}

func (s *Store) bind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadAll reads the full snapshot. An empty database yields empty slices and
// a zero-value restaurant profile; callers seed defaults via EnsureDefaults.
func (s *Store) LoadAll() (*ports.Snapshot, error) {
	snap := &ports.Snapshot{}

	if err := s.loadOrders(snap); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.loadCouriers(snap); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.loadRoutes(snap); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.loadPricing(snap); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.loadRestaurant(snap); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return snap, nil
}

func (s *Store) loadOrders(snap *ports.Snapshot) error {
	rows, err := s.db.Query(`SELECT id, address, lat, lng, created_at, sequence, status,
		courier_id, route_id, delivery_price, pricing_rule_type, pricing_rule_label
		FROM orders ORDER BY sequence ASC`)
	if err != nil {
		return fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o         domain.Order
			createdAt string
			courierID sql.NullString
			routeID   sql.NullString
			price     sql.NullFloat64
			ruleType  sql.NullString
			ruleLabel sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.Address, &o.Lat, &o.Lng, &createdAt, &o.Sequence,
			&o.Status, &courierID, &routeID, &price, &ruleType, &ruleLabel); err != nil {
			return fmt.Errorf("scan order: %w", err)
		}
		o.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return fmt.Errorf("order %s created_at: %w", o.ID, err)
		}
		o.CourierID = courierID.String
		o.RouteID = routeID.String
		o.DeliveryPrice = price.Float64
		if ruleType.Valid {
			o.PricingRule = &domain.PricingRuleSummary{Type: ruleType.String, Label: ruleLabel.String}
		}
		snap.Orders = append(snap.Orders, &o)
	}
	return rows.Err()
}

func (s *Store) loadCouriers(snap *ports.Snapshot) error {
	rows, err := s.db.Query(`SELECT id, name, phone, status FROM couriers`)
	if err != nil {
		return fmt.Errorf("query couriers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Courier
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Status); err != nil {
			return fmt.Errorf("scan courier: %w", err)
		}
		snap.Couriers = append(snap.Couriers, &c)
	}
	return rows.Err()
}

func (s *Store) loadRoutes(snap *ports.Snapshot) error {
	rows, err := s.db.Query(`SELECT id, courier_id, order_ids, status, created_at, maps_url, total_price FROM routes`)
	if err != nil {
		return fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r          domain.Route
			courierID  sql.NullString
			orderIDs   string
			createdAt  string
			mapsURL    sql.NullString
			totalPrice sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &courierID, &orderIDs, &r.Status, &createdAt, &mapsURL, &totalPrice); err != nil {
			return fmt.Errorf("scan route: %w", err)
		}
		r.CourierID = courierID.String
		r.MapsURL = mapsURL.String
		r.TotalPrice = totalPrice.Float64
		r.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return fmt.Errorf("route %s created_at: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(orderIDs), &r.OrderIDs); err != nil {
			return fmt.Errorf("route %s order_ids: %w", r.ID, err)
		}
		snap.Routes = append(snap.Routes, &r)
	}
	return rows.Err()
}

func (s *Store) loadPricing(snap *ports.Snapshot) error {
	bandRows, err := s.db.Query(`SELECT id, max_distance_km, price FROM pricing_bands ORDER BY max_distance_km ASC`)
	if err != nil {
		return fmt.Errorf("query pricing bands: %w", err)
	}
	defer bandRows.Close()

	for bandRows.Next() {
		var b domain.PricingBand
		if err := bandRows.Scan(&b.ID, &b.MaxDistanceKm, &b.Price); err != nil {
			return fmt.Errorf("scan pricing band: %w", err)
		}
		snap.PricingBands = append(snap.PricingBands, b)
	}
	if err := bandRows.Err(); err != nil {
		return err
	}

	zoneRows, err := s.db.Query(`SELECT id, name, match_text, price FROM pricing_zones`)
	if err != nil {
		return fmt.Errorf("query pricing zones: %w", err)
	}
	defer zoneRows.Close()

	for zoneRows.Next() {
		var z domain.PricingZone
		if err := zoneRows.Scan(&z.ID, &z.Name, &z.MatchText, &z.Price); err != nil {
			return fmt.Errorf("scan pricing zone: %w", err)
		}
		snap.PricingZones = append(snap.PricingZones, z)
	}
	return zoneRows.Err()
}

func (s *Store) loadRestaurant(snap *ports.Snapshot) error {
	row := s.db.QueryRow(`SELECT id, name, address, lat, lng, contact_phone, max_radius_km,
		min_batch, max_batch, max_wait_minutes, smart_batch_hold_minutes FROM restaurant_profile`)

	var (
		p     domain.RestaurantProfile
		phone sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Lat, &p.Lng, &phone, &p.MaxRadiusKm,
		&p.MinBatch, &p.MaxBatch, &p.MaxWaitMinutes, &p.HoldMinutes)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan restaurant profile: %w", err)
	}
	p.ContactPhone = phone.String
	snap.Restaurant = p
	return nil
}

// SaveAll replaces the persisted snapshot with the given one, all inside a
// single transaction.
func (s *Store) SaveAll(snap *ports.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save snapshot: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"orders", "couriers", "routes", "pricing_bands", "pricing_zones", "restaurant_profile"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("save snapshot: clear %s: %w", table, err)
		}
	}

	if err := s.insertOrders(tx, snap.Orders); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.insertCouriers(tx, snap.Couriers); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.insertRoutes(tx, snap.Routes); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.insertPricing(tx, snap.PricingBands, snap.PricingZones); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.insertRestaurant(tx, snap.Restaurant); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit tx: %w", err)
	}
	return nil
}

func (s *Store) insertOrders(tx *sql.Tx, orders []*domain.Order) error {
	stmt, err := tx.Prepare(s.bind(`INSERT INTO orders
		(id, address, lat, lng, created_at, sequence, status, courier_id, route_id,
		 delivery_price, pricing_rule_type, pricing_rule_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert order: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		var ruleType, ruleLabel any
		if o.PricingRule != nil {
			ruleType, ruleLabel = o.PricingRule.Type, o.PricingRule.Label
		}
		_, err := stmt.Exec(o.ID, o.Address, o.Lat, o.Lng, formatTime(o.CreatedAt), o.Sequence,
			string(o.Status), nullable(o.CourierID), nullable(o.RouteID), o.DeliveryPrice,
			ruleType, ruleLabel)
		if err != nil {
			return fmt.Errorf("insert order %s: %w", o.ID, err)
		}
	}
	return nil
}

func (s *Store) insertCouriers(tx *sql.Tx, couriers []*domain.Courier) error {
	stmt, err := tx.Prepare(s.bind(`INSERT INTO couriers (id, name, phone, status) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert courier: %w", err)
	}
	defer stmt.Close()

	for _, c := range couriers {
		if _, err := stmt.Exec(c.ID, c.Name, c.Phone, string(c.Status)); err != nil {
			return fmt.Errorf("insert courier %s: %w", c.ID, err)
		}
	}
	return nil
}

func (s *Store) insertRoutes(tx *sql.Tx, routes []*domain.Route) error {
	stmt, err := tx.Prepare(s.bind(`INSERT INTO routes
		(id, courier_id, order_ids, status, created_at, maps_url, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert route: %w", err)
	}
	defer stmt.Close()

	for _, r := range routes {
		orderIDs, err := json.Marshal(r.OrderIDs)
		if err != nil {
			return fmt.Errorf("marshal route %s order_ids: %w", r.ID, err)
		}
		_, err = stmt.Exec(r.ID, nullable(r.CourierID), string(orderIDs), string(r.Status),
			formatTime(r.CreatedAt), nullable(r.MapsURL), r.TotalPrice)
		if err != nil {
			return fmt.Errorf("insert route %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Store) insertPricing(tx *sql.Tx, bands []domain.PricingBand, zones []domain.PricingZone) error {
	bandStmt, err := tx.Prepare(s.bind(`INSERT INTO pricing_bands (id, max_distance_km, price) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert pricing band: %w", err)
	}
	defer bandStmt.Close()

	for _, b := range bands {
		if _, err := bandStmt.Exec(b.ID, b.MaxDistanceKm, b.Price); err != nil {
			return fmt.Errorf("insert pricing band %s: %w", b.ID, err)
		}
	}

	zoneStmt, err := tx.Prepare(s.bind(`INSERT INTO pricing_zones (id, name, match_text, price) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert pricing zone: %w", err)
	}
	defer zoneStmt.Close()

	for _, z := range zones {
		if _, err := zoneStmt.Exec(z.ID, z.Name, z.MatchText, z.Price); err != nil {
			return fmt.Errorf("insert pricing zone %s: %w", z.ID, err)
		}
	}
	return nil
}

func (s *Store) insertRestaurant(tx *sql.Tx, p domain.RestaurantProfile) error {
	if p.ID == "" {
		return nil
	}
	_, err := tx.Exec(s.bind(`INSERT INTO restaurant_profile
		(id, name, address, lat, lng, contact_phone, max_radius_km,
		 min_batch, max_batch, max_wait_minutes, smart_batch_hold_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.Address, p.Lat, p.Lng, nullable(p.ContactPhone), p.MaxRadiusKm,
		p.MinBatch, p.MaxBatch, p.MaxWaitMinutes, p.HoldMinutes)
	if err != nil {
		return fmt.Errorf("insert restaurant profile: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
