package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/healthport/kiosk/internal/vitals"
)

func TestSaveAndLoadYAML(t *testing.T) {
	st := NewStore()
	st.UpdateIdentity(func(id *Identity) {
		id.Name = "Jane Doe"
		id.Age = 34
		id.Language = LanguageFrench
	})
	st.UpdateBiometrics(func(b *Biometrics) {
		b.Height = 160
		b.Weight = 50
		b.Temperature = 38.0
	})
	st.TogglePainArea("head")
	st.SetNextStep(NextStepConsultation)

	path := filepath.Join(t.TempDir(), "visit.yaml")
	if err := SaveToYAML(st.Get(), path); err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}

	loaded, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if loaded.VisitID != st.Get().VisitID {
		t.Errorf("Expected visit ID %q, got %q", st.Get().VisitID, loaded.VisitID)
	}
	if loaded.Identity.Language != LanguageFrench {
		t.Errorf("Expected french, got %q", loaded.Identity.Language)
	}
	if loaded.Biometrics.BMI != 19.5 {
		t.Errorf("Expected BMI 19.5, got %v", loaded.Biometrics.BMI)
	}
	if loaded.HealthMetrics.OverallHealth != vitals.OverallFair {
		t.Errorf("Expected Fair, got %q", loaded.HealthMetrics.OverallHealth)
	}
	if loaded.Diagnosis.NextStep != NextStepConsultation {
		t.Errorf("Expected consultation, got %q", loaded.Diagnosis.NextStep)
	}
}

func TestLoadFromYAML_InvalidNextStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visit.yaml")
	content := "diagnosis:\n  next_step: surgery\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromYAML(path); err == nil {
		t.Error("Expected error for invalid next step")
	}
}

func TestLoadFromYAML_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visit.yaml")
	if err := os.WriteFile(path, []byte("identity:\n  name: Kofi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	if s.Identity.Language != LanguageEnglish {
		t.Errorf("Expected english default, got %q", s.Identity.Language)
	}
	if s.Diagnosis.NextStep != NextStepSelfCare {
		t.Errorf("Expected selfCare default, got %q", s.Diagnosis.NextStep)
	}
	if s.VisitID == "" {
		t.Error("Expected a generated visit ID")
	}
}

func TestLoadFromYAML_MissingFile(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
