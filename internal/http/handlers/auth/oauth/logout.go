package oauth

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
)

// Logout удаляет cookie аккаунта.
type Logout struct {
	cfg Config
}

// NewLogout создает обработчик POST /api/v1/auth/logout.
func NewLogout(cfg Config) *Logout {
	return &Logout{cfg: cfg}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Logout) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accountcookie.Clear(w, h.cfg.Cookie)
	render.JSON(w, r, response.StatusOKWithData(map[string]string{
		"redirect": h.cfg.LogoutRedirect,
	}))
}
