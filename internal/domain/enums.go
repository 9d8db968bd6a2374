package domain

import "strings"

// MedicineType is the dosage form of a medicine. The stored value is the
// stable key (e.g. "TABLETS"); Label returns the user-facing name.
type MedicineType string

const (
	MedicineTypeTablets       MedicineType = "TABLETS"
	MedicineTypeCapsules      MedicineType = "CAPSULES"
	MedicineTypeOintment      MedicineType = "OINTMENT"
	MedicineTypeCream         MedicineType = "CREAM"
	MedicineTypeDrops         MedicineType = "DROPS"
	MedicineTypeSyrup         MedicineType = "SYRUP"
	MedicineTypeSpray         MedicineType = "SPRAY"
	MedicineTypeSolution      MedicineType = "SOLUTION"
	MedicineTypePowder        MedicineType = "POWDER"
	MedicineTypeSuppositories MedicineType = "SUPPOSITORIES"
	MedicineTypePatch         MedicineType = "PATCH"
	MedicineTypeOther         MedicineType = "OTHER"
)

// MedicineTypes lists every type in display order.
var MedicineTypes = []MedicineType{
	MedicineTypeTablets, MedicineTypeCapsules, MedicineTypeOintment, MedicineTypeCream,
	MedicineTypeDrops, MedicineTypeSyrup, MedicineTypeSpray, MedicineTypeSolution,
	MedicineTypePowder, MedicineTypeSuppositories, MedicineTypePatch, MedicineTypeOther,
}

var medicineTypeLabels = map[MedicineType]string{
	MedicineTypeTablets:       "таблетки",
	MedicineTypeCapsules:      "капсулы",
	MedicineTypeOintment:      "мазь",
	MedicineTypeCream:         "крем",
	MedicineTypeDrops:         "капли",
	MedicineTypeSyrup:         "сироп",
	MedicineTypeSpray:         "спрей",
	MedicineTypeSolution:      "раствор",
	MedicineTypePowder:        "порошок",
	MedicineTypeSuppositories: "свечи",
	MedicineTypePatch:         "пластырь",
	MedicineTypeOther:         "другое",
}

func (t MedicineType) String() string { return string(t) }

func (t MedicineType) IsValid() bool {
	_, ok := medicineTypeLabels[t]
	return ok
}

// Label returns the human-readable name, or the raw key for unknown values.
func (t MedicineType) Label() string {
	if l, ok := medicineTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseMedicineType looks up a type by its stable key (case-insensitive).
func ParseMedicineType(key string) (MedicineType, bool) {
	t := MedicineType(strings.ToUpper(strings.TrimSpace(key)))
	return t, t.IsValid()
}

// MedicineCategory is the therapeutic group of a medicine.
type MedicineCategory string

const (
	CategoryPainkiller       MedicineCategory = "PAINKILLER"
	CategoryAntiInflammatory MedicineCategory = "ANTI_INFLAMMATORY"
	CategoryAntibiotic       MedicineCategory = "ANTIBIOTIC"
	CategoryAntiviral        MedicineCategory = "ANTIVIRAL"
	CategoryAntihistamine    MedicineCategory = "ANTIHISTAMINE"
	CategoryAntiseptic       MedicineCategory = "ANTISEPTIC"
	CategoryVitamin          MedicineCategory = "VITAMIN"
	CategoryCardiovascular   MedicineCategory = "CARDIOVASCULAR"
	CategoryDigestive        MedicineCategory = "DIGESTIVE"
	CategoryRespiratory      MedicineCategory = "RESPIRATORY"
	CategoryDermatological   MedicineCategory = "DERMATOLOGICAL"
	CategoryNeurological     MedicineCategory = "NEUROLOGICAL"
	CategoryOther            MedicineCategory = "OTHER"
)

// MedicineCategories lists every category in display order.
var MedicineCategories = []MedicineCategory{
	CategoryPainkiller, CategoryAntiInflammatory, CategoryAntibiotic, CategoryAntiviral,
	CategoryAntihistamine, CategoryAntiseptic, CategoryVitamin, CategoryCardiovascular,
	CategoryDigestive, CategoryRespiratory, CategoryDermatological, CategoryNeurological,
	CategoryOther,
}

var categoryLabels = map[MedicineCategory]string{
	CategoryPainkiller:       "обезболивающее",
	CategoryAntiInflammatory: "противовоспалительное",
	CategoryAntibiotic:       "антибиотик",
	CategoryAntiviral:        "противовирусное",
	CategoryAntihistamine:    "антигистаминное",
	CategoryAntiseptic:       "антисептик",
	CategoryVitamin:          "витамины/БАД",
	CategoryCardiovascular:   "сердечно-сосудистое",
	CategoryDigestive:        "для ЖКТ",
	CategoryRespiratory:      "для дыхательной системы",
	CategoryDermatological:   "дерматологическое",
	CategoryNeurological:     "неврологическое",
	CategoryOther:            "другое",
}

func (c MedicineCategory) String() string { return string(c) }

func (c MedicineCategory) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name, or the raw key for unknown values.
func (c MedicineCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseMedicineCategory looks up a category by its stable key (case-insensitive).
func ParseMedicineCategory(key string) (MedicineCategory, bool) {
	c := MedicineCategory(strings.ToUpper(strings.TrimSpace(key)))
	return c, c.IsValid()
}
