package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/crypto/bcrypt"
)

func GetProfile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		user, err := db.GetUserByID(r.Context(), pool, int(userID))
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get profile for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

func UpdateProfile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name   string  `json:"name"`
			Avatar *string `json:"avatar"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update profile request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		user, err := db.UpdateUserProfile(r.Context(), pool, int(userID), req.Name, req.Avatar)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update profile for user %d: %v", userID, err)
			http.Error(w, "failed to update profile", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated profile for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

func ChangePassword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !util.ValidatePassword(req.NewPassword) {
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, and digit", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, int(userID))
		if err != nil {
			log.Printf("ERROR: Failed to get user %d for password change: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Wrong current password for user %d", userID)
			http.Error(w, "current password is incorrect", http.StatusUnauthorized)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := db.UpdateUserPassword(r.Context(), pool, int(userID), string(hashedPassword)); err != nil {
			log.Printf("ERROR: Failed to update password for user %d: %v", userID, err)
			http.Error(w, "failed to change password", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Changed password for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "password changed"})
	}
}

func DeleteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		if err := db.DeleteUser(r.Context(), pool, int(userID)); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete user %d: %v", userID, err)
			http.Error(w, "failed to delete user", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted user %d and all associated data", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
	}
}

// ExportTransactions renders the user's full history as a PDF: headline
// metrics first, then the transaction table.
func ExportTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		user, err := db.GetUserByID(r.Context(), pool, int(userID))
		if err != nil {
			log.Printf("ERROR: Failed to get user %d for export: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		transactions, err := db.ListAllTransactionsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for export, user %d: %v", userID, err)
			http.Error(w, "failed to export transactions", http.StatusInternalServerError)
			return
		}

		metrics := reports.Export(transactions)

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.SetTitle("Transaction History", false)
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(0, 10, "Transaction History")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 8, fmt.Sprintf("%s  |  %s to %s",
			user.Name,
			metrics.FirstDate.Format("Jan 2, 2006"),
			metrics.LastDate.Format("Jan 2, 2006")))
		pdf.Ln(12)

		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Summary")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		summaryRows := [][2]string{
			{"Total Income", fmt.Sprintf("%.2f", metrics.Income)},
			{"Total Expense", fmt.Sprintf("%.2f", metrics.Expense)},
			{"Balance", fmt.Sprintf("%.2f", metrics.Balance)},
			{"Savings Rate", fmt.Sprintf("%.1f%%", metrics.SavingsRate)},
			{"Avg Daily Expense", fmt.Sprintf("%.2f", metrics.AvgDailyExpense)},
		}
		for _, row := range summaryRows {
			pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, row[1], "", 1, "R", false, 0, "")
		}
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(24, 7, "Date", "1", 0, "L", true, 0, "")
		pdf.CellFormat(60, 7, "Description", "1", 0, "L", true, 0, "")
		pdf.CellFormat(36, 7, "Category", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, "Account", "1", 0, "L", true, 0, "")
		pdf.CellFormat(16, 7, "Type", "1", 0, "L", true, 0, "")
		pdf.CellFormat(24, 7, "Amount", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, t := range transactions {
			description, categoryName, accountName := "", "", ""
			if t.Description != nil {
				description = *t.Description
			}
			if t.Category != nil {
				categoryName = t.Category.Name
			}
			if t.Account != nil {
				accountName = t.Account.Name
			}
			pdf.CellFormat(24, 6, t.Date.Format("2006-01-02"), "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, truncate(description, 40), "1", 0, "L", false, 0, "")
			pdf.CellFormat(36, 6, truncate(categoryName, 24), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, truncate(accountName, 20), "1", 0, "L", false, 0, "")
			pdf.CellFormat(16, 6, t.Type[:3], "1", 0, "L", false, 0, "")
			pdf.CellFormat(24, 6, fmt.Sprintf("%.2f", t.Amount), "1", 1, "R", false, 0, "")
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="transactions-%s.pdf"`, time.Now().Format("2006-01-02")))
		if err := pdf.Output(w); err != nil {
			log.Printf("ERROR: Failed to write PDF export for user %d: %v", userID, err)
		}
	}
}

// truncate shortens a cell value to max characters. It counts runes so a
// multi-byte character is never cut in half, and falls back to an ASCII
// ellipsis because the PDF's cp1252 font set has no U+2026.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
