package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "fr" {
		t.Fatalf("expected fr fallback")
	}
	if DetectLanguage("") != "fr" {
		t.Fatalf("expected default fr")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("fr", "required") != "Requis" {
		t.Fatalf("expected Requis")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to fr translation if exists
	if T("es", "required") != "Requis" {
		t.Fatalf("expected fr fallback for es lang")
	}
}

func TestTf(t *testing.T) {
	got := Tf("fr", "room_booked", "01/03/2025", "05/03/2025")
	if got != "Cette chambre est déjà réservée du 01/03/2025 au 05/03/2025" {
		t.Fatalf("unexpected message %q", got)
	}
	if Tf("en", "room_booked", "a", "b") != "This room is already booked from a to b" {
		t.Fatalf("unexpected en message")
	}
}

func TestLangContext(t *testing.T) {
	ctx := context.Background()
	if LangFrom(ctx) != "fr" {
		t.Fatalf("expected default fr")
	}
	if LangFrom(WithLang(ctx, "en")) != "en" {
		t.Fatalf("expected en from context")
	}
	if !Supported("en") || Supported("de") {
		t.Fatalf("unexpected Supported result")
	}
}
