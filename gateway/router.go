package gateway

import (
	"net/http"

	"tapsika/application"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the HTTP routing table over the engine.
func NewRouter(engine *application.Engine) http.Handler {
	h := NewHandler(engine)

	r := chi.NewRouter()
	r.Use(RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/accounts/resolve", h.resolveAccount)
		v1.Post("/saves", h.recordSave)
		v1.Post("/game-plays", h.recordGamePlay)
		v1.Post("/referrals/apply", h.applyReferralCode)
		v1.Post("/redemptions", h.redeem)
		v1.Post("/jar-shake/entries", h.enterJarShake)

		v1.Get("/leaderboard", h.getLeaderboard)
		v1.Get("/vouchers/{code}", h.getVoucher)

		v1.Route("/accounts/{externalID}", func(a chi.Router) {
			a.Get("/profile", h.getProfile)
			a.Get("/balance", h.getBalance)
			a.Get("/transactions", h.getTransactions)
			a.Get("/plays-today", h.playsToday)
			a.Get("/referrals", h.getReferralInfo)
			a.Get("/redemptions", h.getRedemptions)
			a.Get("/redemption-eligibility", h.redemptionEligibility)
			a.Get("/jar-shake-eligibility", h.jarShakeEligibility)
			a.Get("/rank", h.getRank)
		})
	})

	return r
}
