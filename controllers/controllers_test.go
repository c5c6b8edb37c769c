package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"tableside-backend/controllers"
	"tableside-backend/middleware"
	"tableside-backend/models"
	"tableside-backend/routes"
	"tableside-backend/services"
	"tableside-backend/testutil"

	"github.com/gin-gonic/gin"
)

type testServer struct {
	router http.Handler
	f      *testutil.Fixture
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)

	audit := services.NewAuditService(db)
	menu := services.NewMenuService(db)
	sessions := services.NewSessionManager("test-secret", time.Hour)
	orders := services.NewOrderService(db, audit, menu)
	seats := services.NewSeatService(db, audit)
	catalog := services.NewCatalogService(db)
	tickets := services.NewTicketService(db, audit)

	router := routes.SetupRouter(routes.Handlers{
		Auth:      controllers.NewAuthController(services.NewCodeScanAuthenticator(db), sessions, audit),
		Rooms:     controllers.NewRoomController(catalog, tickets, audit),
		Tables:    controllers.NewTableController(orders),
		Orders:    controllers.NewOrderController(orders, seats, tickets),
		Seats:     controllers.NewSeatController(seats),
		Selection: controllers.NewSelectionController(services.NewSelectionService(db, audit)),
		Parties:   controllers.NewPartyController(menu),
		Admin:     controllers.NewAdminController(catalog, menu, services.NewStaffService(db), audit),
	}, sessions, []string{"*"})

	token, _, err := sessions.Issue(f.Staff.ID, f.Staff.Name)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return &testServer{router: router, f: f, token: token}
}

// do sends a request with the staff session unless anonymous is set.
// A url.Values body is form encoded, anything else non-nil is JSON.
func (s *testServer) do(t *testing.T, method, path string, body any, anonymous bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		req = httptest.NewRequest(method, path, strings.NewReader(string(raw)))
		req.Header.Set("Content-Type", "application/json")
	}
	if !anonymous {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, decoded
}

func (s *testServer) seatIDs(t *testing.T, tableID uint) map[string]uint {
	t.Helper()
	var seats []models.Seat
	err := s.f.DB.Joins("JOIN orders ON orders.id = seats.order_id").
		Where("orders.table_id = ? AND orders.printed = ?", tableID, false).
		Find(&seats).Error
	if err != nil {
		t.Fatalf("load seats: %v", err)
	}
	out := make(map[string]uint, len(seats))
	for _, st := range seats {
		out[st.Label] = st.ID
	}
	return out
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/health", nil, true)
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", w.Code, body)
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/rooms", "/tables/1", "/admin/rooms"} {
		w, body := s.do(t, http.MethodGet, path, nil, true)
		if w.Code != http.StatusUnauthorized || body["redirect"] != "/login" {
			t.Fatalf("%s: got %d %v", path, w.Code, body)
		}
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/login", url.Values{"code": {"0000"}}, true)
	if w.Code != http.StatusUnauthorized || body["message"] != "Invalid code – try again." {
		t.Fatalf("bad code: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, "/login", url.Values{"code": {testutil.StaffCode}}, true)
	if w.Code != http.StatusOK || body["redirect"] != "/rooms" {
		t.Fatalf("login: %d %v", w.Code, body)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie session rejected: %d %s", rec.Code, rec.Body.String())
	}
}

func TestStartAndJoinFlow(t *testing.T) {
	s := newTestServer(t)
	tablePath := fmt.Sprintf("/tables/%d", s.f.Table.ID)

	w, body := s.do(t, http.MethodPost, tablePath+"/start", url.Values{"seat_count": {"4"}}, false)
	if w.Code != http.StatusCreated || body["redirect"] != tablePath {
		t.Fatalf("start: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, tablePath+"/start", url.Values{"seat_count": {"4"}}, false)
	if w.Code != http.StatusConflict {
		t.Fatalf("second start: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, tablePath+"/join", url.Values{"my_seat_start": {"3"}, "my_seat_end": {"6"}}, false)
	if w.Code != http.StatusConflict {
		t.Fatalf("overlapping join: %d %v", w.Code, body)
	}
	seats, _ := body["seats"].([]any)
	if len(seats) != 2 || seats[0] != float64(3) || seats[1] != float64(4) {
		t.Fatalf("overlap seats = %v", body["seats"])
	}
	if body["message"] != "The seats 3, 4 already exist in this order. Pick a different range." {
		t.Fatalf("message = %v", body["message"])
	}

	w, body = s.do(t, http.MethodPost, tablePath+"/join", map[string]any{"my_seat_start": 5, "my_seat_end": 6}, false)
	if w.Code != http.StatusOK || body["redirect"] != tablePath+"?my_start=5&my_end=6" {
		t.Fatalf("join: %d %v", w.Code, body)
	}
	if len(s.seatIDs(t, s.f.Table.ID)) != 6 {
		t.Fatal("expected 6 seats after join")
	}

	w, body = s.do(t, http.MethodGet, tablePath+"?my_start=6&my_end=5", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("view: %d %v", w.Code, body)
	}
	data := body["data"].(map[string]any)
	if visible := data["seats"].([]any); len(visible) != 2 {
		t.Fatalf("reversed range should be swapped, got %d seats", len(visible))
	}
}

func TestStartValidation(t *testing.T) {
	s := newTestServer(t)
	path := fmt.Sprintf("/tables/%d/start", s.f.Table.ID)

	tests := []struct {
		name string
		form url.Values
	}{
		{"start without end", url.Values{"my_seat_start": {"3"}}},
		{"start after end", url.Values{"my_seat_start": {"5"}, "my_seat_end": {"2"}}},
		{"not a number", url.Values{"seat_count": {"many"}}},
		{"count above max", url.Values{"seat_count": {"1000"}}},
		{"huge count", url.Values{"seat_count": {"9223372036854775807"}}},
		{"huge range", url.Values{"my_seat_start": {"1"}, "my_seat_end": {"9223372036854775807"}}},
		{"overflowing number", url.Values{"seat_count": {"99999999999999999999"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPost, path, tt.form, false)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d %v", w.Code, body)
			}
		})
	}

	var orders int64
	if err := s.f.DB.Model(&models.Order{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orders != 0 {
		t.Fatalf("rejected starts left %d orders", orders)
	}

	w, _ := s.do(t, http.MethodPost, "/tables/9999/start", url.Values{}, false)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown table: %d", w.Code)
	}
}

func TestJoinWithoutOrderPointsToStart(t *testing.T) {
	s := newTestServer(t)
	path := fmt.Sprintf("/tables/%d", s.f.Table.ID)
	w, body := s.do(t, http.MethodPost, path+"/join", url.Values{}, false)
	if w.Code != http.StatusConflict || body["redirect"] != path+"/start" {
		t.Fatalf("join without order: %d %v", w.Code, body)
	}
}

func TestSelectionEndpoints(t *testing.T) {
	s := newTestServer(t)
	tablePath := fmt.Sprintf("/tables/%d", s.f.Table.ID)
	if w, body := s.do(t, http.MethodPost, tablePath+"/start", url.Values{"seat_count": {"2"}}, false); w.Code != http.StatusCreated {
		t.Fatalf("start: %d %v", w.Code, body)
	}
	seats := s.seatIDs(t, s.f.Table.ID)

	form := url.Values{
		"seat_id":           {fmt.Sprint(seats["1"])},
		"item_id":           {fmt.Sprint(s.f.Steak.ID)},
		"modifier_ids[]":    {fmt.Sprint(s.f.GF.ID)},
		"temperature_ids[]": {fmt.Sprint(s.f.Rare.ID)},
		"notes":             {"no sauce"},
	}
	w, body := s.do(t, http.MethodPost, "/selections", form, false)
	if w.Code != http.StatusOK {
		t.Fatalf("add selection: %d %v", w.Code, body)
	}
	if want := fmt.Sprintf("%s?active_seat=%d", tablePath, seats["1"]); body["redirect"] != want {
		t.Fatalf("redirect = %v, want %s", body["redirect"], want)
	}
	sel := body["selection"].(map[string]any)
	selID := uint(sel["id"].(float64))

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "missing ids",
			body:       url.Values{"selection_id": {fmt.Sprint(selID)}},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "error", "message": "Missing selection_id or target_seat_id"},
		},
		{
			name:       "unknown selection",
			body:       url.Values{"selection_id": {"9999"}, "target_seat_id": {fmt.Sprint(seats["2"])}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "json move",
			body:       map[string]any{"selection_id": selID, "target_seat_id": seats["2"]},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "ok"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPost, "/selections/move", tt.body, false)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", w.Code, tt.wantStatus, body)
			}
			if body["status"] != "ok" && body["status"] != "error" {
				t.Fatalf("unexpected envelope %v", body)
			}
			if tt.wantBody != nil {
				if len(body) != len(tt.wantBody) {
					t.Fatalf("body = %v, want %v", body, tt.wantBody)
				}
				for k, v := range tt.wantBody {
					if body[k] != v {
						t.Fatalf("body[%s] = %v, want %v", k, body[k], v)
					}
				}
			}
		})
	}

	var moved models.SeatSelection
	if err := s.f.DB.First(&moved, selID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if moved.SeatID != seats["2"] || moved.Notes != "no sauce" {
		t.Fatalf("selection after move: %+v", moved)
	}

	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/selections/%d/remove", selID), nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: %d", w.Code)
	}
	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/selections/%d/remove", selID), nil, false)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second remove: %d", w.Code)
	}
}

func TestSeatsAndClose(t *testing.T) {
	s := newTestServer(t)
	if w, body := s.do(t, http.MethodPost, fmt.Sprintf("/tables/%d/start", s.f.Table.ID), url.Values{"seat_count": {"2"}}, false); w.Code != http.StatusCreated {
		t.Fatalf("start: %d %v", w.Code, body)
	}
	var order models.Order
	if err := s.f.DB.Where("table_id = ?", s.f.Table.ID).First(&order).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}

	w, body := s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/seats", order.ID), nil, false)
	if w.Code != http.StatusCreated || body["seat"].(map[string]any)["label"] != "3" {
		t.Fatalf("add seat: %d %v", w.Code, body)
	}

	seatID := s.seatIDs(t, s.f.Table.ID)["1"]
	if w, _ := s.do(t, http.MethodPost, fmt.Sprintf("/seats/%d/remove", seatID), nil, false); w.Code != http.StatusOK {
		t.Fatalf("remove seat: %d", w.Code)
	}
	if w, _ := s.do(t, http.MethodPost, fmt.Sprintf("/seats/%d/remove", seatID), nil, false); w.Code != http.StatusNotFound {
		t.Fatalf("second remove seat: %d", w.Code)
	}

	w, body = s.do(t, http.MethodGet, fmt.Sprintf("/orders/%d/print", order.ID), nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("print: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/tables/%d", s.f.Table.ID), nil, false)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete table with order: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/close", order.ID), nil, false)
	if w.Code != http.StatusOK || body["redirect"] != fmt.Sprintf("/rooms/%d/tables", s.f.Room.ID) {
		t.Fatalf("close: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodGet, fmt.Sprintf("/rooms/%d/tables", s.f.Room.ID), nil, false)
	if w.Code != http.StatusOK || len(body["tables"].([]any)) != 2 {
		t.Fatalf("room tables: %d %v", w.Code, body)
	}
}

func TestAdminCatalogAndPartyMenu(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/admin/parties", map[string]any{"name": "Spring Wedding"}, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("create party: %d %v", w.Code, body)
	}
	party := body["data"].(map[string]any)
	if party["slug"] != "spring-wedding" || party["created_by"] != "Alice" {
		t.Fatalf("party = %v", party)
	}
	partyID := uint(party["id"].(float64))

	w, body = s.do(t, http.MethodPost, fmt.Sprintf("/admin/parties/%d/menu-items", partyID),
		map[string]any{"menu_item_id": s.f.Steak.ID, "price_override": "31.50"}, false)
	if w.Code != http.StatusOK || body["effective_price"] != "31.5" {
		t.Fatalf("set party menu item: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodGet, "/parties/spring-wedding/menu", nil, true)
	if w.Code != http.StatusOK || len(body["items"].([]any)) != 1 {
		t.Fatalf("party menu: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, "/admin/menu-items",
		url.Values{"name": {"Tart"}, "course_id": {fmt.Sprint(s.f.Starter.ID)}, "price": {"6.00"}, "modifier_ids[]": {fmt.Sprint(s.f.GF.ID)}}, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu item: %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, "/admin/rooms", map[string]any{"name": "Main Hall"}, false)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate room: %d %v", w.Code, body)
	}
}

func TestAdminResetsStaffCode(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPut, fmt.Sprintf("/admin/staff/%d/code", s.f.Other.ID), map[string]any{"code": "5555"}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("reset code: %d %v", w.Code, body)
	}

	if w, _ := s.do(t, http.MethodPost, "/login", url.Values{"code": {testutil.OtherStaffCode}}, true); w.Code != http.StatusUnauthorized {
		t.Fatalf("old code still accepted: %d", w.Code)
	}
	w, body = s.do(t, http.MethodPost, "/login", url.Values{"code": {"5555"}}, true)
	if w.Code != http.StatusOK || body["staff"].(map[string]any)["name"] != "Bob" {
		t.Fatalf("new code: %d %v", w.Code, body)
	}

	w, _ = s.do(t, http.MethodPut, "/admin/staff/9999/code", map[string]any{"code": "5555"}, false)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown staff: %d", w.Code)
	}
}

func TestSelectionRejectsUnreadableInput(t *testing.T) {
	s := newTestServer(t)
	if w, body := s.do(t, http.MethodPost, fmt.Sprintf("/tables/%d/start", s.f.Table.ID), url.Values{"seat_count": {"1"}}, false); w.Code != http.StatusCreated {
		t.Fatalf("start: %d %v", w.Code, body)
	}
	seatID := fmt.Sprint(s.seatIDs(t, s.f.Table.ID)["1"])
	itemID := fmt.Sprint(s.f.Soup.ID)

	rawJSON := func(path, payload string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.token)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v (%s)", err, w.Body.String())
		}
		return w, body
	}

	t.Run("malformed move json", func(t *testing.T) {
		w, body := rawJSON("/selections/move", `{"selection_id": 1,`)
		if w.Code != http.StatusBadRequest || body["message"] != "Invalid request payload" {
			t.Fatalf("got %d %v", w.Code, body)
		}
	})

	t.Run("move json without ids", func(t *testing.T) {
		w, body := rawJSON("/selections/move", `{}`)
		if w.Code != http.StatusBadRequest || body["message"] != "Missing selection_id or target_seat_id" {
			t.Fatalf("got %d %v", w.Code, body)
		}
	})

	t.Run("malformed add json", func(t *testing.T) {
		w, body := rawJSON("/selections", `{"seat_id": "x"`)
		if w.Code != http.StatusBadRequest || body["message"] != "Invalid request payload" {
			t.Fatalf("got %d %v", w.Code, body)
		}
	})

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{"non-numeric seat", url.Values{"seat_id": {"abc"}, "item_id": {itemID}}, http.StatusNotFound},
		{"non-numeric item", url.Values{"seat_id": {seatID}, "item_id": {"soup"}}, http.StatusNotFound},
		{"missing item", url.Values{"seat_id": {seatID}}, http.StatusBadRequest},
		{"blank seat", url.Values{"seat_id": {" "}, "item_id": {itemID}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPost, "/selections", tt.form, false)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", w.Code, tt.wantStatus, body)
			}
		})
	}

	var n int64
	if err := s.f.DB.Model(&models.SeatSelection{}).Count(&n).Error; err != nil {
		t.Fatalf("count selections: %v", err)
	}
	if n != 0 {
		t.Fatalf("rejected requests created %d selections", n)
	}
}
