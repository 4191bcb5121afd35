package i18n

import "testing"

func restore(t *testing.T) {
	t.Helper()
	prev := CurrentCode()
	t.Cleanup(func() { _ = SetLanguage(prev) })
}

func TestSetLanguage(t *testing.T) {
	restore(t)

	if err := SetLanguage("en"); err != nil {
		t.Fatal(err)
	}
	if CurrentCode() != "en" {
		t.Fatalf("expected en, got %q", CurrentCode())
	}
	if Current().LanguageChanged != bundles["en"].LanguageChanged {
		t.Fatal("Current() does not reflect the active language")
	}

	if err := SetLanguage("zh"); err != nil {
		t.Fatal(err)
	}
	if CurrentCode() != "zh" {
		t.Fatalf("expected zh, got %q", CurrentCode())
	}
}

func TestSetLanguageUnknown(t *testing.T) {
	restore(t)

	before := CurrentCode()
	if err := SetLanguage("fr"); err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if CurrentCode() != before {
		t.Fatal("failed SetLanguage must not change the current language")
	}
}

func TestBundlesComplete(t *testing.T) {
	for _, code := range Languages() {
		b, ok := bundles[code]
		if !ok {
			t.Fatalf("missing bundle for %q", code)
		}
		if b.Welcome == "" || b.ErrorMessage == "" || b.LoadSuccess == "" {
			t.Errorf("bundle %q has empty required strings", code)
		}
	}
}
