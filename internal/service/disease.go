package service

import (
	"sort"
	"strings"
)

// diseaseMedicines maps a lower-case disease name to commonly prescribed medicines.
var diseaseMedicines = map[string][]string{
	"hypertension": {"Lisinopril", "Amlodipine", "Hydrochlorothiazide", "Metoprolol"},
	"diabetes":     {"Metformin", "Insulin", "Glipizide", "Empagliflozin"},
	"depression":   {"Sertraline", "Escitalopram", "Fluoxetine", "Venlafaxine"},
	"asthma":       {"Albuterol", "Fluticasone", "Montelukast", "Prednisone"},
	"arthritis":    {"Ibuprofen", "Naproxen", "Methotrexate", "Adalimumab"},
	"infection":    {"Amoxicillin", "Azithromycin", "Ciprofloxacin", "Doxycycline"},
	"cholesterol":  {"Atorvastatin", "Rosuvastatin", "Simvastatin", "Ezetimibe"},
	"pain":         {"Ibuprofen", "Acetaminophen", "Naproxen", "Tramadol"},
	"acid-reflux":  {"Omeprazole", "Pantoprazole", "Ranitidine", "Famotidine"},
	"allergy":      {"Cetirizine", "Loratadine", "Fexofenadine", "Diphenhydramine"},
}

// MedicinesForDisease returns the medicines listed for disease, matched
// case-insensitively. Unknown diseases yield an empty, non-nil slice.
func MedicinesForDisease(disease string) []string {
	medicines, ok := diseaseMedicines[strings.ToLower(disease)]
	if !ok {
		return []string{}
	}
	return append([]string(nil), medicines...)
}

// KnownDiseases returns the lookup keys in sorted order.
func KnownDiseases() []string {
	keys := make([]string, 0, len(diseaseMedicines))
	for k := range diseaseMedicines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
