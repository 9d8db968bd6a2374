package upload

import "github.com/heartmarshall/medkit/internal/dialogue"

// FlowName prefixes the flow's callback data and session key.
const FlowName = "up"

// Steps.
const (
	StepChoosingKit      dialogue.Step = "choosing_kit"
	StepEnteringName     dialogue.Step = "entering_name"
	StepPickingSimilar   dialogue.Step = "picking_similar"
	StepChoosingType     dialogue.Step = "choosing_type"
	StepChoosingCategory dialogue.Step = "choosing_category"
	StepEnteringDosage   dialogue.Step = "entering_dosage"
	StepMedicineNotes    dialogue.Step = "entering_medicine_notes"
	StepEnteringQuantity dialogue.Step = "entering_quantity"
	StepEnteringUnit     dialogue.Step = "entering_unit"
	StepEnteringExpiry   dialogue.Step = "entering_expiry_date"
	StepEnteringLocation dialogue.Step = "entering_location"
	StepItemNotes        dialogue.Step = "entering_item_notes"
	StepConfirming       dialogue.Step = "confirming"
)

var table = dialogue.Table{
	Start: StepChoosingKit,
	From: map[dialogue.Step][]dialogue.Step{
		StepEnteringName:     {StepChoosingKit},
		StepPickingSimilar:   {StepEnteringName},
		StepChoosingType:     {StepEnteringName, StepPickingSimilar},
		StepChoosingCategory: {StepChoosingType},
		StepEnteringDosage:   {StepChoosingCategory},
		StepMedicineNotes:    {StepEnteringDosage},
		StepEnteringQuantity: {StepMedicineNotes, StepPickingSimilar},
		StepEnteringUnit:     {StepEnteringQuantity},
		StepEnteringExpiry:   {StepEnteringUnit},
		StepEnteringLocation: {StepEnteringExpiry},
		StepItemNotes:        {StepEnteringLocation},
		StepConfirming:       {StepItemNotes},
	},
}

// Session fields. Enumerations are stored by key, dates as DD.MM.YYYY and
// quantities as decimal strings. An empty value means the step was skipped.
const (
	fieldKitID            = "kit_id"
	fieldKitName          = "kit_name"
	fieldMedicineName     = "medicine_name"
	fieldSelectedMedicine = "selected_medicine_id"
	fieldMedicineType     = "medicine_type"
	fieldMedicineCategory = "medicine_category"
	fieldMedicineDosage   = "medicine_dosage"
	fieldMedicineNotes    = "medicine_notes"
	fieldQuantity         = "item_quantity"
	fieldUnit             = "item_unit"
	fieldExpiryDate       = "item_expiry_date"
	fieldLocation         = "item_location"
	fieldItemNotes        = "item_notes"
)

// Fields every commit needs, and the extra ones for a new catalog entry.
var (
	itemFields        = []string{fieldKitID, fieldQuantity, fieldUnit, fieldExpiryDate, fieldLocation, fieldItemNotes}
	newMedicineFields = []string{fieldMedicineName, fieldMedicineType, fieldMedicineCategory, fieldMedicineDosage, fieldMedicineNotes}
)

// Callback actions.
const (
	actKit     = "kit"
	actPick    = "pick"
	actNew     = "new"
	actType    = "type"
	actCat     = "cat"
	actSkip    = "skip"
	actConfirm = "confirm"
)

// AddItemData starts the flow with the kit already chosen.
const AddItemData = "add_item"
