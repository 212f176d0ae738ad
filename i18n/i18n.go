// Package i18n holds the fr/en message catalog used for API error messages
// and export headers.
package i18n

import (
	"context"
	"fmt"
	"strings"
)

const DefaultLang = "fr"

type ctxKey struct{}

var catalog = map[string]map[string]string{
	"fr": {
		"required":               "Requis",
		"invalid_email":          "Adresse e-mail invalide",
		"must_be_positive":       "Doit être positif",
		"must_not_be_negative":   "Ne peut pas être négatif",
		"out_of_range":           "Hors limites",
		"invalid_choice":         "Choix invalide",
		"invalid":                "Valeur invalide",
		"invalid_date":           "Date invalide (AAAA-MM-JJ)",
		"date_order":             "La date de fin doit être postérieure à la date de début",
		"room_booked":            "Cette chambre est déjà réservée du %s au %s",
		"not_found":              "Ressource introuvable",
		"invalid_transition":     "Changement de statut non autorisé",
		"checkout_blocked":       "Départ impossible : solde client non nul et aucune affiliation validée",
		"conflict":               "Opération impossible dans l'état actuel",
		"empty_cart":             "Le panier est vide",
		"internal_error":         "Erreur interne",
		"validation_failed":      "Données invalides",
		"bad_request":            "Requête invalide",
		"col_datetime":           "Date/Heure",
		"col_user":               "Utilisateur",
		"col_type":               "Type",
		"col_module":             "Module",
		"col_action":             "Action",
		"col_details":            "Détails",
		"col_severity":           "Sévérité",
		"sheet_activity":         "Journal",
		"system_user":            "Système",
		"already_exists":         "Existe déjà",
		"reservation_not_active": "La réservation doit être active",
		"room_payment_resident":  "Le paiement en chambre est réservé aux résidents",
		"item_unavailable":       "Article indisponible",
		"too_many_requests":      "Trop de requêtes, réessayez plus tard",
	},
	"en": {
		"required":               "Required",
		"invalid_email":          "Invalid email address",
		"must_be_positive":       "Must be positive",
		"must_not_be_negative":   "Must not be negative",
		"out_of_range":           "Out of range",
		"invalid_choice":         "Invalid choice",
		"invalid":                "Invalid value",
		"invalid_date":           "Invalid date (YYYY-MM-DD)",
		"date_order":             "End date must be after start date",
		"room_booked":            "This room is already booked from %s to %s",
		"not_found":              "Resource not found",
		"invalid_transition":     "Status change not allowed",
		"checkout_blocked":       "Checkout refused: client balance is not zero and no validated affiliation",
		"conflict":               "Operation not possible in the current state",
		"empty_cart":             "The cart is empty",
		"internal_error":         "Internal error",
		"validation_failed":      "Invalid data",
		"bad_request":            "Bad request",
		"col_datetime":           "Date/Time",
		"col_user":               "User",
		"col_type":               "Type",
		"col_module":             "Module",
		"col_action":             "Action",
		"col_details":            "Details",
		"col_severity":           "Severity",
		"sheet_activity":         "Activity",
		"system_user":            "System",
		"already_exists":         "Already exists",
		"reservation_not_active": "The reservation must be active",
		"room_payment_resident":  "Room charging is reserved to residents",
		"item_unavailable":       "Item unavailable",
		"too_many_requests":      "Too many requests, try again later",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if tag == "" {
			continue
		}
		base := strings.SplitN(tag, "-", 2)[0]
		if _, ok := catalog[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// T translates code, falling back to French and then to the code itself.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the language stored in ctx or DefaultLang.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
