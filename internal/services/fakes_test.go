package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/eventbus"
	"gearguard/pkg/types"
)

// fakeTxManager вызывает fn без транзакции: фейковые репозитории tx не используют.
type fakeTxManager struct{ calls int }

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *fakePublisher) Publish(_ context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// ---------- users ----------

type fakeUserRepo struct {
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User)}
}

func (r *fakeUserRepo) add(name, email, role string) uint64 {
	id, _ := r.Create(context.Background(), nil, entities.User{Name: name, Email: email, Role: role})
	return id
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindRole(_ context.Context, id uint64) (string, error) {
	u, ok := r.users[id]
	if !ok {
		return "", apperrors.ErrUserNotFound
	}
	return u.Role, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, _ pgx.Tx, user entities.User) (uint64, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, apperrors.ErrConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now()
	r.users[user.ID] = &user
	return user.ID, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ pgx.Tx, userID uint64, hash string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = hash
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, _ pgx.Tx, userID uint64, role string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]entities.User, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListAvailableForTeam в фейке не знает о командах, фильтрует только по роли.
func (r *fakeUserRepo) ListAvailableForTeam(ctx context.Context, _ uint64, roles []string) ([]entities.User, error) {
	all, _ := r.ListAll(ctx)
	out := make([]entities.User, 0)
	for _, u := range all {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// ---------- teams ----------

type fakeTeamRepo struct {
	teams     map[uint64]*entities.Team
	members   map[uint64]map[uint64]bool
	equipment *fakeEquipmentRepo
	nextID    uint64
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[uint64]*entities.Team), members: make(map[uint64]map[uint64]bool)}
}

func (r *fakeTeamRepo) List(_ context.Context) ([]entities.Team, error) {
	out := make([]entities.Team, 0, len(r.teams))
	for id, t := range r.teams {
		cp := *t
		cp.MemberCount = len(r.members[id])
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTeamRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *t
	cp.MemberCount = len(r.members[id])
	return &cp, nil
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID uint64) ([]entities.TeamMember, error) {
	out := make([]entities.TeamMember, 0)
	for userID := range r.members[teamID] {
		out = append(out, entities.TeamMember{UserID: userID})
	}
	return out, nil
}

func (r *fakeTeamRepo) ExistsByName(_ context.Context, _ pgx.Tx, name string, excludeID uint64) (bool, error) {
	for id, t := range r.teams {
		if t.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) Create(_ context.Context, _ pgx.Tx, name string) (uint64, error) {
	r.nextID++
	r.teams[r.nextID] = &entities.Team{ID: r.nextID, Name: name}
	return r.nextID, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, _ pgx.Tx, id uint64, name string) error {
	t, ok := r.teams[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Name = name
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.teams[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.teams, id)
	delete(r.members, id)
	return nil
}

func (r *fakeTeamRepo) IsReferencedByEquipment(_ context.Context, _ pgx.Tx, id uint64) (bool, error) {
	if r.equipment == nil {
		return false, nil
	}
	for _, e := range r.equipment.items {
		if e.MaintenanceTeamID != nil && *e.MaintenanceTeamID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) IsMember(_ context.Context, _ pgx.Tx, teamID, userID uint64) (bool, error) {
	return r.members[teamID][userID], nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, _ pgx.Tx, teamID, userID uint64) error {
	if r.members[teamID] == nil {
		r.members[teamID] = make(map[uint64]bool)
	}
	if r.members[teamID][userID] {
		return apperrors.ErrConflict
	}
	r.members[teamID][userID] = true
	return nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, _ pgx.Tx, teamID, userID uint64) error {
	if !r.members[teamID][userID] {
		return apperrors.ErrNotFound
	}
	delete(r.members[teamID], userID)
	return nil
}

// ---------- equipment ----------

type fakeEquipmentRepo struct {
	items    map[uint64]*entities.Equipment
	requests *fakeRequestRepo
	nextID   uint64
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: make(map[uint64]*entities.Equipment)}
}

func (r *fakeEquipmentRepo) List(_ context.Context, filter types.EquipmentFilter) ([]entities.Equipment, error) {
	out := make([]entities.Equipment, 0)
	for _, e := range r.items {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeEquipmentRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Equipment, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEquipmentRepo) ExistsBySerial(_ context.Context, _ pgx.Tx, serial string, excludeID uint64) (bool, error) {
	for id, e := range r.items {
		if e.SerialNumber == serial && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEquipmentRepo) Create(_ context.Context, _ pgx.Tx, e entities.Equipment) (uint64, error) {
	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = &e
	return e.ID, nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, _ pgx.Tx, id uint64, columns map[string]interface{}) error {
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for col, v := range columns {
		switch col {
		case "name":
			e.Name = v.(string)
		case "serial_number":
			e.SerialNumber = v.(string)
		case "status":
			e.Status = v.(string)
		case "department":
			e.Department = optString(v)
		case "location":
			e.Location = optString(v)
		case "purchase_date":
			if t, ok := v.(time.Time); ok {
				e.PurchaseDate = &t
			} else {
				e.PurchaseDate = nil
			}
		case "maintenance_team_id":
			if id, ok := columnUint64(columns, col); ok {
				e.MaintenanceTeamID = &id
			} else {
				e.MaintenanceTeamID = nil
			}
		}
	}
	return nil
}

func optString(v interface{}) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentRepo) IsReferencedByRequests(_ context.Context, _ pgx.Tx, id uint64) (bool, error) {
	if r.requests == nil {
		return false, nil
	}
	for _, req := range r.requests.items {
		if req.EquipmentID != nil && *req.EquipmentID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---------- work centers ----------

type fakeWorkCenterRepo struct {
	items        map[uint64]*entities.WorkCenter
	alternatives map[uint64]map[uint64]bool
	requests     *fakeRequestRepo
	nextID       uint64
}

func newFakeWorkCenterRepo() *fakeWorkCenterRepo {
	return &fakeWorkCenterRepo{items: make(map[uint64]*entities.WorkCenter), alternatives: make(map[uint64]map[uint64]bool)}
}

func (r *fakeWorkCenterRepo) List(_ context.Context) ([]entities.WorkCenter, error) {
	out := make([]entities.WorkCenter, 0)
	for _, wc := range r.items {
		out = append(out, *wc)
	}
	return out, nil
}

func (r *fakeWorkCenterRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.WorkCenter, error) {
	wc, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *wc
	return &cp, nil
}

func (r *fakeWorkCenterRepo) ExistsByCode(_ context.Context, _ pgx.Tx, code string, excludeID uint64) (bool, error) {
	for id, wc := range r.items {
		if wc.Code != nil && *wc.Code == code && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWorkCenterRepo) Create(_ context.Context, _ pgx.Tx, wc entities.WorkCenter) (uint64, error) {
	r.nextID++
	wc.ID = r.nextID
	r.items[wc.ID] = &wc
	return wc.ID, nil
}

func (r *fakeWorkCenterRepo) Update(_ context.Context, _ pgx.Tx, id uint64, columns map[string]interface{}) error {
	wc, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for col, v := range columns {
		switch col {
		case "name":
			wc.Name = v.(string)
		case "code":
			wc.Code = optString(v)
		case "cost_per_hour":
			wc.CostPerHour = v.(float64)
		}
	}
	return nil
}

func (r *fakeWorkCenterRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeWorkCenterRepo) IsReferencedByRequests(_ context.Context, _ pgx.Tx, id uint64) (bool, error) {
	if r.requests == nil {
		return false, nil
	}
	for _, req := range r.requests.items {
		if req.WorkCenterID != nil && *req.WorkCenterID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWorkCenterRepo) ListAlternatives(_ context.Context, id uint64) ([]entities.WorkCenterAlternative, error) {
	out := make([]entities.WorkCenterAlternative, 0)
	for altID := range r.alternatives[id] {
		alt := r.items[altID]
		out = append(out, entities.WorkCenterAlternative{WorkCenterID: id, ID: altID, Name: alt.Name, Status: alt.Status})
	}
	return out, nil
}

func (r *fakeWorkCenterRepo) AlternativeExists(_ context.Context, _ pgx.Tx, id, alternativeID uint64) (bool, error) {
	return r.alternatives[id][alternativeID], nil
}

func (r *fakeWorkCenterRepo) AddAlternative(_ context.Context, _ pgx.Tx, id, alternativeID uint64) error {
	if r.alternatives[id] == nil {
		r.alternatives[id] = make(map[uint64]bool)
	}
	r.alternatives[id][alternativeID] = true
	return nil
}

// ---------- maintenance requests ----------

type fakeRequestRepo struct {
	items  map[uint64]*entities.MaintenanceRequest
	nextID uint64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: make(map[uint64]*entities.MaintenanceRequest)}
}

func (r *fakeRequestRepo) List(_ context.Context, filter types.MaintenanceFilter) ([]entities.MaintenanceRequest, error) {
	out := make([]entities.MaintenanceRequest, 0)
	for _, m := range r.items {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeRequestRepo) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *fakeRequestRepo) Create(_ context.Context, _ pgx.Tx, req entities.MaintenanceRequest) (uint64, error) {
	r.nextID++
	req.ID = r.nextID
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.items[req.ID] = &req
	return req.ID, nil
}

func (r *fakeRequestRepo) UpdateAssignee(_ context.Context, _ pgx.Tx, id uint64, userID uint64) error {
	m, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.AssignedToUserID = &userID
	m.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id uint64, status string, duration *float64) error {
	m, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.Status = status
	if duration != nil {
		d := *duration
		m.DurationHours = &d
	}
	m.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRequestRepo) ListForCalendar(_ context.Context, rng types.CalendarRange) ([]entities.CalendarEntry, error) {
	out := make([]entities.CalendarEntry, 0)
	for _, m := range r.items {
		if m.ScheduledDate == nil {
			continue
		}
		if !rng.From.IsZero() && m.ScheduledDate.Before(rng.From) {
			continue
		}
		if !rng.To.IsZero() && !m.ScheduledDate.Before(rng.To) {
			continue
		}
		out = append(out, entities.CalendarEntry{ID: m.ID, Subject: m.Subject, Type: m.Type, Status: m.Status, ScheduledDate: *m.ScheduledDate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r *fakeRequestRepo) ListStatusRows(_ context.Context) ([]entities.RequestStatusRow, error) {
	out := make([]entities.RequestStatusRow, 0)
	for _, m := range r.items {
		out = append(out, entities.RequestStatusRow{ID: m.ID, Status: m.Status, EquipmentID: m.EquipmentID, AssignedToUserID: m.AssignedToUserID})
	}
	return out, nil
}

// ---------- notes & history ----------

type fakeNoteRepo struct {
	items  []entities.Note
	nextID uint64
}

func (r *fakeNoteRepo) Create(_ context.Context, _ pgx.Tx, note entities.Note) (*entities.Note, error) {
	r.nextID++
	note.ID = r.nextID
	note.CreatedAt = time.Now()
	r.items = append(r.items, note)
	return &note, nil
}

func (r *fakeNoteRepo) ListByRequest(_ context.Context, requestID uint64) ([]entities.Note, error) {
	out := make([]entities.Note, 0)
	for _, n := range r.items {
		if n.RequestID == requestID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	items []entities.RequestHistory
}

func (r *fakeHistoryRepo) CreateInTx(_ context.Context, _ pgx.Tx, h entities.RequestHistory) error {
	h.ID = uint64(len(r.items) + 1)
	h.CreatedAt = time.Now()
	r.items = append(r.items, h)
	return nil
}

func (r *fakeHistoryRepo) FindByRequestID(_ context.Context, requestID uint64) ([]entities.RequestHistory, error) {
	out := make([]entities.RequestHistory, 0)
	for _, h := range r.items {
		if h.RequestID == requestID {
			out = append(out, h)
		}
	}
	return out, nil
}

// ---------- cache ----------

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{values: make(map[string]string)} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case string:
		c.values[key] = v
	case uint64:
		c.values[key] = uintToString(v)
	default:
		c.values[key] = "?"
	}
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) GetDel(ctx context.Context, key string) (string, error) {
	v, err := c.Get(ctx, key)
	delete(c.values, key)
	return v, err
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	var n int64
	for _, ch := range c.values[key] {
		n = n*10 + int64(ch-'0')
	}
	n++
	c.values[key] = uintToString(uint64(n))
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.values[key]
	return ok, nil
}

func (c *fakeCache) TTL(_ context.Context, _ string) (time.Duration, error) { return time.Minute, nil }

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func uintToString(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf []byte
	for v > 0 {
		buf = append([]byte{byte('0' + v%10)}, buf...)
		v /= 10
	}
	return string(buf)
}

// ---------- окружение сервисов ----------

type testEnv struct {
	users      *fakeUserRepo
	teams      *fakeTeamRepo
	equipment  *fakeEquipmentRepo
	workCenter *fakeWorkCenterRepo
	requests   *fakeRequestRepo
	notes      *fakeNoteRepo
	history    *fakeHistoryRepo
	tx         *fakeTxManager
	publisher  *fakePublisher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		teams:      newFakeTeamRepo(),
		equipment:  newFakeEquipmentRepo(),
		workCenter: newFakeWorkCenterRepo(),
		requests:   newFakeRequestRepo(),
		notes:      &fakeNoteRepo{},
		history:    &fakeHistoryRepo{},
		tx:         &fakeTxManager{},
		publisher:  &fakePublisher{},
	}
	env.teams.equipment = env.equipment
	env.equipment.requests = env.requests
	env.workCenter.requests = env.requests
	return env
}

func (env *testEnv) addEquipment(name, serial string, teamID *uint64) uint64 {
	id, _ := env.equipment.Create(context.Background(), nil, entities.Equipment{
		Name: name, SerialNumber: serial, Status: constants.EquipmentStatusActive, MaintenanceTeamID: teamID,
	})
	return id
}

func workCenterFixture(name string) entities.WorkCenter {
	return entities.WorkCenter{Name: name, TimeEfficiencyPct: 100, Status: constants.WorkCenterStatusActive}
}
