// Команда stub-upstream поднимает фальшивый API заказов для локальной
// разработки панели: логин с выдачей JWT, списки заказов и действия над ними.
// Данные живут в памяти и сбрасываются при перезапуске.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const tokenTTL = 24 * time.Hour

type server struct {
	mu      sync.Mutex
	secret  []byte
	logger  *log.Entry
	pending []orderPayload
	branch  []orderPayload
}

type orderPayload struct {
	Tag           string    `json:"tag"`
	CustomerName  string    `json:"customer_name"`
	TotalMinor    int64     `json:"total_minor"`
	CreatedAt     time.Time `json:"created_at"`
	TableName     string    `json:"table_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	OrderTypeName string    `json:"order_type_name,omitempty"`
	OrderTypeCode string    `json:"order_type_code,omitempty"`
	Status        string    `json:"status,omitempty"`
}

func seedOrders() (pending, branch []orderPayload) {
	base := time.Now().Add(-2 * time.Hour)
	names := []string{"Maria Lopez", "Ivan Petrov", "Anna Schmidt", "Chen Wei", "Olga Ivanova"}
	statuses := []string{"pending", "confirmed", "preparing", "ready"}

	for i := 0; i < 12; i++ {
		pending = append(pending, orderPayload{
			Tag:          fmt.Sprintf("pnd-%03d", i+1),
			CustomerName: names[i%len(names)],
			TotalMinor:   int64(1500 + i*350),
			CreatedAt:    base.Add(time.Duration(i) * 7 * time.Minute),
			TableName:    fmt.Sprintf("Table %d", i%6+1),
		})
	}
	for i := 0; i < 34; i++ {
		branch = append(branch, orderPayload{
			Tag:           fmt.Sprintf("brn-%03d", i+1),
			CustomerName:  names[(i+2)%len(names)],
			TotalMinor:    int64(900 + i*210),
			CreatedAt:     base.Add(time.Duration(i) * 3 * time.Minute),
			OrderTypeName: "Dine-in",
			OrderTypeCode: "DI",
			Status:        statuses[i%len(statuses)],
		})
	}
	return pending, branch
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	secret := os.Getenv("STUB_JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	pending, branch := seedOrders()
	s := &server{
		secret:  []byte(secret),
		logger:  log.WithField("component", "stub-upstream"),
		pending: pending,
		branch:  branch,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/branches/{branch}/orders/pending", s.auth(s.handlePending))
	mux.HandleFunc("GET /api/v1/branches/{branch}/orders", s.auth(s.handleBranchPage))
	mux.HandleFunc("POST /api/v1/orders/{tag}/confirm", s.auth(s.orderAction("confirm")))
	mux.HandleFunc("POST /api/v1/orders/{tag}/reject", s.auth(s.orderAction("reject")))
	mux.HandleFunc("POST /api/v1/orders/{tag}/cancel", s.auth(s.orderAction("cancel")))
	mux.HandleFunc("POST /api/v1/orders/{tag}/status", s.auth(s.orderAction("status")))

	s.logger.Infof("stub upstream слушает %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		s.logger.WithError(err).Fatal("stub upstream stopped")
	}
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   creds.Username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	s.logger.WithField("user", creds.Username).Info("issued dev token")
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      signed,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// auth проверяет bearer-токен так же строго, как настоящий API: 401 на всё,
// что не подписано нашим секретом или уже истекло.
func (s *server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (s *server) handlePending(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := make([]orderPayload, len(s.pending))
	copy(orders, s.pending)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *server) handleBranchPage(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	s.mu.Lock()
	total := len(s.branch)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]orderPayload, end-start)
	copy(items, s.branch[start:end])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"orders":      items,
		"total_items": total,
	})
}

// orderAction применяет действие к заказу в любом из списков.
func (s *server) orderAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := r.PathValue("tag")

		var body struct {
			Reason string `json:"reason"`
			Status string `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if action == "reject" && strings.TrimSpace(body.Reason) == "" {
			writeError(w, http.StatusBadRequest, "reason is required")
			return
		}

		newStatus := map[string]string{
			"confirm": "confirmed",
			"reject":  "rejected",
			"cancel":  "cancelled",
			"status":  body.Status,
		}[action]

		s.mu.Lock()
		defer s.mu.Unlock()

		for i := range s.branch {
			if s.branch[i].Tag == tag {
				s.branch[i].Status = newStatus
				s.logger.WithFields(log.Fields{"tag": tag, "action": action}).Info("order updated")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		for i, order := range s.pending {
			if order.Tag == tag {
				// Подтверждённый или отклонённый pending-заказ покидает общий список.
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				s.logger.WithFields(log.Fields{"tag": tag, "action": action}).Info("pending order resolved")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "order not found")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
