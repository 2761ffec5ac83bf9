package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tapsika/application"
	"tapsika/domain/entities"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handler serves the HTTP surface over the engine.
type Handler struct {
	engine *application.Engine
}

// NewHandler creates a new gateway handler.
func NewHandler(engine *application.Engine) *Handler {
	return &Handler{engine: engine}
}

type accountResponse struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"externalId"`
	DisplayName  string `json:"displayName"`
	ReferralCode string `json:"referralCode"`
	HasReferrer  bool   `json:"hasReferrer"`
	Created      bool   `json:"created,omitempty"`
}

type balanceResponse struct {
	SavingsTotal      decimal.Decimal `json:"savingsTotal"`
	Sika              int64           `json:"sika"`
	LifetimeSika      int64           `json:"lifetimeSika"`
	GameCoins         int64           `json:"gameCoins"`
	LifetimeGameCoins int64           `json:"lifetimeGameCoins"`
	Tier              entities.Tier   `json:"tier"`
}

type streakResponse struct {
	CurrentStreak   int             `json:"currentStreak"`
	LongestStreak   int             `json:"longestStreak"`
	LastSaveDate    *string         `json:"lastSaveDate"`
	SavesThisMonth  int             `json:"savesThisMonth"`
	AmountThisMonth decimal.Decimal `json:"amountThisMonth"`
}

func toAccountResponse(account *entities.Account, created bool) accountResponse {
	return accountResponse{
		ID:           account.ID,
		ExternalID:   account.ExternalID,
		DisplayName:  account.DisplayName,
		ReferralCode: account.ReferralCode,
		HasReferrer:  account.HasReferrer(),
		Created:      created,
	}
}

func toBalanceResponse(balance *entities.Balance) balanceResponse {
	return balanceResponse{
		SavingsTotal:      balance.SavingsTotal,
		Sika:              balance.Sika,
		LifetimeSika:      balance.LifetimeSika,
		GameCoins:         balance.GameCoins,
		LifetimeGameCoins: balance.LifetimeGameCoins,
		Tier:              balance.Tier,
	}
}

func toStreakResponse(streak *entities.Streak) streakResponse {
	resp := streakResponse{
		CurrentStreak:   streak.CurrentStreak,
		LongestStreak:   streak.LongestStreak,
		SavesThisMonth:  streak.SavesThisMonth,
		AmountThisMonth: streak.AmountThisMonth,
	}
	if streak.LastSaveDate != nil {
		date := streak.LastSaveDate.Format(time.DateOnly)
		resp.LastSaveDate = &date
	}
	return resp
}

func decodeBody(r *http.Request, into any) bool {
	return json.NewDecoder(r.Body).Decode(into) == nil
}

func externalIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "externalID"))
}

type resolveAccountRequest struct {
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) resolveAccount(w http.ResponseWriter, r *http.Request) {
	var req resolveAccountRequest
	if !decodeBody(r, &req) || strings.TrimSpace(req.ExternalID) == "" {
		writeBadRequest(w, "externalId is required")
		return
	}

	account, created, err := h.engine.ResolveOrCreateAccount(r.Context(), strings.TrimSpace(req.ExternalID), req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toAccountResponse(account, created))
}

type recordSaveRequest struct {
	ExternalID  string          `json:"externalId"`
	DisplayName string          `json:"displayName"`
	Amount      decimal.Decimal `json:"amount"`
}

type recordSaveResponse struct {
	Balance       balanceResponse `json:"balance"`
	SikaCredited  int64           `json:"sikaCredited"`
	CurrentStreak int             `json:"currentStreak"`
	LongestStreak int             `json:"longestStreak"`
	BonusesPaid   []int64         `json:"bonusesPaid"`
}

func (h *Handler) recordSave(w http.ResponseWriter, r *http.Request) {
	var req recordSaveRequest
	if !decodeBody(r, &req) || strings.TrimSpace(req.ExternalID) == "" {
		writeBadRequest(w, "externalId is required")
		return
	}
	if !req.Amount.IsPositive() {
		writeBadRequest(w, "amount must be positive")
		return
	}

	result, err := h.engine.RecordSave(r.Context(), strings.TrimSpace(req.ExternalID), req.DisplayName, req.Amount, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordSaveResponse{
		Balance:       toBalanceResponse(result.Balance),
		SikaCredited:  result.SikaCredited,
		CurrentStreak: result.CurrentStreak,
		LongestStreak: result.LongestStreak,
		BonusesPaid:   result.BonusesPaid,
	})
}

type recordPlayRequest struct {
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	CoinsEarned int64  `json:"coinsEarned"`
}

type recordPlayResponse struct {
	PlayNumber     int             `json:"playNumber"`
	PlaysRemaining int             `json:"playsRemaining"`
	CoinsEarned    int64           `json:"coinsEarned"`
	Balance        balanceResponse `json:"balance"`
}

func (h *Handler) recordGamePlay(w http.ResponseWriter, r *http.Request) {
	var req recordPlayRequest
	if !decodeBody(r, &req) || strings.TrimSpace(req.ExternalID) == "" {
		writeBadRequest(w, "externalId is required")
		return
	}
	if req.Score < 0 || req.CoinsEarned < 0 {
		writeBadRequest(w, "score and coinsEarned must not be negative")
		return
	}

	result, err := h.engine.RecordGamePlay(r.Context(), strings.TrimSpace(req.ExternalID), req.DisplayName, time.Now().UTC(), req.Score, req.CoinsEarned)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordPlayResponse{
		PlayNumber:     result.Play.PlayNumber,
		PlaysRemaining: result.PlaysRemaining,
		CoinsEarned:    result.Play.CoinsEarned,
		Balance:        toBalanceResponse(result.Balance),
	})
}

func (h *Handler) playsToday(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	count, err := h.engine.PlaysToday(r.Context(), externalID, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}

	remaining := entities.MaxPlaysPerDay - count
	if remaining < 0 {
		remaining = 0
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"playsToday":     count,
		"playsRemaining": remaining,
	})
}

type applyReferralRequest struct {
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName"`
	Code        string `json:"code"`
}

func (h *Handler) applyReferralCode(w http.ResponseWriter, r *http.Request) {
	var req applyReferralRequest
	if !decodeBody(r, &req) || strings.TrimSpace(req.ExternalID) == "" {
		writeBadRequest(w, "externalId is required")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeBadRequest(w, "code is required")
		return
	}

	referrerName, err := h.engine.ApplyReferralCode(r.Context(), strings.TrimSpace(req.ExternalID), req.DisplayName, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"referrerName": referrerName})
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	balance, err := h.engine.GetBalance(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(balance))
}

type profileResponse struct {
	Account accountResponse `json:"account"`
	Balance balanceResponse `json:"balance"`
	Streak  streakResponse  `json:"streak"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	profile, err := h.engine.GetProfile(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Account: toAccountResponse(profile.Account, false),
		Balance: toBalanceResponse(profile.Balance),
		Streak:  toStreakResponse(profile.Streak),
	})
}

type referralInfoResponse struct {
	ReferralCode   string      `json:"referralCode"`
	TotalReferrals int         `json:"totalReferrals"`
	ByLevel        map[int]int `json:"byLevel"`
	TotalBonus     int64       `json:"totalBonus"`
}

func (h *Handler) getReferralInfo(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	info, err := h.engine.GetReferralInfo(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, referralInfoResponse{
		ReferralCode:   info.ReferralCode,
		TotalReferrals: info.TotalReferrals,
		ByLevel:        info.ByLevel,
		TotalBonus:     info.TotalBonus,
	})
}

type transactionResponse struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type"`
	SavingsAmount   decimal.Decimal `json:"savingsAmount"`
	SikaAmount      int64           `json:"sikaAmount"`
	GameCoinsAmount int64           `json:"gameCoinsAmount"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (h *Handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	transactions, err := h.engine.GetTransactions(r.Context(), externalID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, transactionResponse{
			ID:              tx.ID,
			Type:            string(tx.Type),
			SavingsAmount:   tx.SavingsAmount,
			SikaAmount:      tx.SikaAmount,
			GameCoinsAmount: tx.GameCoinsAmount,
			Description:     tx.Description,
			CreatedAt:       tx.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type redemptionEligibilityResponse struct {
	SavingsTotal decimal.Decimal `json:"savingsTotal"`
	VoucherValue decimal.Decimal `json:"voucherValue"`
	CanRedeem    bool            `json:"canRedeem"`
}

func (h *Handler) redemptionEligibility(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	eligibility, err := h.engine.RedemptionEligibility(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, redemptionEligibilityResponse{
		SavingsTotal: eligibility.SavingsTotal,
		VoucherValue: eligibility.VoucherValue,
		CanRedeem:    eligibility.CanRedeem,
	})
}

type redeemRequest struct {
	ExternalID string `json:"externalId"`
	PartnerID  string `json:"partnerId"`
}

type redemptionResponse struct {
	VoucherCode  string          `json:"voucherCode"`
	VoucherValue decimal.Decimal `json:"voucherValue"`
	Status       string          `json:"status"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

func (h *Handler) redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if !decodeBody(r, &req) || strings.TrimSpace(req.ExternalID) == "" {
		writeBadRequest(w, "externalId is required")
		return
	}

	redemption, err := h.engine.Redeem(r.Context(), strings.TrimSpace(req.ExternalID), req.PartnerID, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRedemptionResponse(redemption))
}

func toRedemptionResponse(redemption *entities.Redemption) redemptionResponse {
	return redemptionResponse{
		VoucherCode:  redemption.VoucherCode,
		VoucherValue: redemption.VoucherValue,
		Status:       string(redemption.Status),
		ExpiresAt:    redemption.ExpiresAt,
	}
}

func (h *Handler) getVoucher(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		writeBadRequest(w, "voucher code is required")
		return
	}

	redemption, err := h.engine.GetVoucher(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRedemptionResponse(redemption))
}

func (h *Handler) getRedemptions(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	redemptions, err := h.engine.GetRedemptions(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]redemptionResponse, 0, len(redemptions))
	for _, redemption := range redemptions {
		response = append(response, toRedemptionResponse(redemption))
	}
	writeJSON(w, http.StatusOK, response)
}

type jarShakeEligibilityResponse struct {
	Eligible         bool            `json:"eligible"`
	GameCoins        int64           `json:"gameCoins"`
	SavingsThisMonth decimal.Decimal `json:"savingsThisMonth"`
	CoinsNeeded      int64           `json:"coinsNeeded"`
	SavingsNeeded    decimal.Decimal `json:"savingsNeeded"`
}

func (h *Handler) jarShakeEligibility(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	eligibility, err := h.engine.JarShakeEligibility(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jarShakeEligibilityResponse{
		Eligible:         eligibility.Eligible,
		GameCoins:        eligibility.GameCoins,
		SavingsThisMonth: eligibility.SavingsThisMonth,
		CoinsNeeded:      eligibility.CoinsNeeded,
		SavingsNeeded:    eligibility.SavingsNeeded,
	})
}

type jarShakeEntryRequest struct {
	EventID    string `json:"eventId"`
	ExternalID string `json:"externalId"`
}

type jarShakeEntryResponse struct {
	EventID      string `json:"eventId"`
	RewardTier   string `json:"rewardTier"`
	RewardAmount int64  `json:"rewardAmount"`
	RewardType   string `json:"rewardType"`
	CoinsSpent   int64  `json:"coinsSpent"`
}

func (h *Handler) enterJarShake(w http.ResponseWriter, r *http.Request) {
	var req jarShakeEntryRequest
	if !decodeBody(r, &req) || strings.TrimSpace(req.ExternalID) == "" {
		writeBadRequest(w, "externalId is required")
		return
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		writeBadRequest(w, "eventId must be a valid UUID")
		return
	}

	entry, err := h.engine.EnterJarShake(r.Context(), eventID, strings.TrimSpace(req.ExternalID))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, jarShakeEntryResponse{
		EventID:      entry.EventID.String(),
		RewardTier:   string(entry.RewardTier),
		RewardAmount: entry.RewardAmount,
		RewardType:   string(entry.RewardType),
		CoinsSpent:   entry.CoinsSpent,
	})
}

type leaderboardEntryResponse struct {
	Rank         int           `json:"rank"`
	DisplayName  string        `json:"displayName"`
	LifetimeSika int64         `json:"lifetimeSika"`
	Tier         entities.Tier `json:"tier"`
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.engine.GetLeaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]leaderboardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, leaderboardEntryResponse{
			Rank:         entry.Rank,
			DisplayName:  entry.DisplayName,
			LifetimeSika: entry.LifetimeSika,
			Tier:         entry.Tier,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getRank(w http.ResponseWriter, r *http.Request) {
	externalID := externalIDParam(r)
	if externalID == "" {
		writeBadRequest(w, "externalID is required")
		return
	}

	rank, err := h.engine.GetRank(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"rank": rank})
}
