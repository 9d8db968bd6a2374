package upload

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/domain"
)

// prompt renders the question of the session's current step.
func prompt(s *dialogue.Session) chat.Message {
	switch s.Step {
	case StepChoosingKit:
		return chat.Message{Text: msgChooseKit, Keyboard: cancelKeyboard()}
	case StepEnteringName:
		return chat.Message{Text: "📦 " + s.Get(fieldKitName) + "\n\n" + msgEnterName, Keyboard: cancelKeyboard()}
	case StepPickingSimilar:
		return chat.Message{Text: msgSimilarFound}
	case StepChoosingType:
		return chat.Message{Text: msgChooseType, Keyboard: typeKeyboard()}
	case StepChoosingCategory:
		return chat.Message{Text: msgChooseCategory, Keyboard: categoryKeyboard()}
	case StepEnteringDosage:
		return chat.Message{Text: msgEnterDosage, Keyboard: skipKeyboard()}
	case StepMedicineNotes:
		return chat.Message{Text: msgMedicineNotes, Keyboard: skipKeyboard()}
	case StepEnteringQuantity:
		return chat.Message{Text: "💊 " + s.Get(fieldMedicineName) + "\n\n" + msgEnterQuantity, Keyboard: cancelKeyboard()}
	case StepEnteringUnit:
		return chat.Message{Text: msgEnterUnit, Keyboard: cancelKeyboard()}
	case StepEnteringExpiry:
		return chat.Message{Text: msgEnterExpiry, Keyboard: skipKeyboard()}
	case StepEnteringLocation:
		return chat.Message{Text: msgEnterLocation, Keyboard: skipKeyboard()}
	case StepItemNotes:
		return chat.Message{Text: msgItemNotes, Keyboard: skipKeyboard()}
	case StepConfirming:
		return summary(s)
	}
	return chat.Message{Text: msgIncomplete}
}

// summary lists everything collected and asks for confirmation.
func summary(s *dialogue.Session) chat.Message {
	var b strings.Builder
	b.WriteString("📋 Проверьте данные:\n\n")
	writeDetails(&b, s)
	return chat.Message{
		Text: b.String(),
		Keyboard: chat.Keyboard{
			chat.Row(chat.Button{Label: btnConfirm, Data: data(actConfirm)}, cancelButton()),
		},
	}
}

func writeDetails(b *strings.Builder, s *dialogue.Session) {
	fmt.Fprintf(b, "📦 Аптечка: %s\n", s.Get(fieldKitName))
	fmt.Fprintf(b, "💊 Лекарство: %s\n", s.Get(fieldMedicineName))
	if t, ok := domain.ParseMedicineType(s.Get(fieldMedicineType)); ok {
		fmt.Fprintf(b, "Форма: %s\n", t.Label())
	}
	if c, ok := domain.ParseMedicineCategory(s.Get(fieldMedicineCategory)); ok {
		fmt.Fprintf(b, "Категория: %s\n", c.Label())
	}
	if !s.Has(fieldSelectedMedicine) {
		fmt.Fprintf(b, "Дозировка: %s\n", orNotSet(s.Get(fieldMedicineDosage)))
		if v := s.Get(fieldMedicineNotes); v != "" {
			fmt.Fprintf(b, "Описание: %s\n", v)
		}
	}
	fmt.Fprintf(b, "🔢 Количество: %s %s\n", strings.ReplaceAll(s.Get(fieldQuantity), ".", ","), s.Get(fieldUnit))
	fmt.Fprintf(b, "📅 Годен до: %s\n", orNotSet(s.Get(fieldExpiryDate)))
	fmt.Fprintf(b, "📍 Место: %s\n", orNotSet(s.Get(fieldLocation)))
	if v := s.Get(fieldItemNotes); v != "" {
		fmt.Fprintf(b, "📝 Заметки: %s\n", v)
	}
}

func orNotSet(v string) string {
	if v == "" {
		return notSet
	}
	return v
}

func cancelButton() chat.Button {
	return chat.Button{Label: btnCancel, Data: dialogue.CancelData}
}

func cancelKeyboard() chat.Keyboard {
	return chat.Keyboard{chat.Row(cancelButton())}
}

func skipKeyboard() chat.Keyboard {
	return chat.Keyboard{chat.Row(chat.Button{Label: btnSkip, Data: data(actSkip)}, cancelButton())}
}

func typeKeyboard() chat.Keyboard {
	return enumKeyboard(len(domain.MedicineTypes), func(i int) chat.Button {
		t := domain.MedicineTypes[i]
		return chat.Button{Label: t.Label(), Data: data(actType, t.String())}
	})
}

func categoryKeyboard() chat.Keyboard {
	return enumKeyboard(len(domain.MedicineCategories), func(i int) chat.Button {
		c := domain.MedicineCategories[i]
		return chat.Button{Label: c.Label(), Data: data(actCat, c.String())}
	})
}

// enumKeyboard lays n buttons out two per row, followed by a cancel row.
func enumKeyboard(n int, button func(i int) chat.Button) chat.Keyboard {
	kb := make(chat.Keyboard, 0, n/2+2)
	for i := 0; i < n; i += 2 {
		row := chat.Row(button(i))
		if i+1 < n {
			row = append(row, button(i+1))
		}
		kb = append(kb, row)
	}
	return append(kb, chat.Row(cancelButton()))
}
