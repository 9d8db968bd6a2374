package upload

const (
	msgChooseKit      = "📦 Выберите аптечку или напишите название новой:"
	msgNoKits         = "📦 У вас пока нет аптечек. Напишите название новой:"
	msgEnterName      = "💊 Введите название лекарства:"
	msgSimilarFound   = "🔎 Похожие лекарства уже есть в справочнике. Выберите подходящее или создайте новое:"
	msgChooseType     = "Выберите форму выпуска:"
	msgChooseCategory = "Выберите категорию:"
	msgEnterDosage    = "Введите дозировку (например, 500 мг) или пропустите:"
	msgMedicineNotes  = "Введите описание лекарства или пропустите:"
	msgEnterQuantity  = "🔢 Введите количество (например, 10 или 2,5):"
	msgEnterUnit      = "Введите единицу измерения (шт, мл, г):"
	msgEnterExpiry    = "📅 Введите срок годности в формате ДД.ММ.ГГГГ или ММ.ГГГГ, или пропустите:"
	msgEnterLocation  = "📍 Где хранится лекарство? Или пропустите:"
	msgItemNotes      = "📝 Заметки к этой упаковке или пропустите:"
	msgUseButtons     = "Пожалуйста, выберите вариант с помощью кнопок."
	msgStaleButton    = "Эта кнопка устарела."
	msgKitNotFound    = "❌ Аптечка не найдена."
	msgMedNotFound    = "❌ Лекарство не найдено в справочнике."
	msgCommitFailed   = "⚠️ Не удалось сохранить. Попробуйте подтвердить ещё раз."
	msgIncomplete     = "⚠️ Не хватает данных. Начните добавление заново: /upload"

	errQuantityMalformed = "❌ Не похоже на число. Введите количество, например 10 или 2,5."
	errQuantityNegative  = "❌ Количество не может быть отрицательным."
	errQuantityTooSmall  = "❌ Количество должно быть не меньше 0,01."
	errQuantityTooLarge  = "❌ Слишком большое количество (максимум 99999999,99)."
	errUnit              = "❌ Единица измерения должна быть от 1 до 10 символов."
	errDate              = "❌ Неверная дата. Используйте ДД.ММ.ГГГГ или ММ.ГГГГ."
	errNameShort         = "❌ Название должно содержать хотя бы 2 символа."
	errNameLong          = "❌ Слишком длинное название."
	errTooLong           = "❌ Слишком длинный текст."
	errKitName           = "❌ Название аптечки должно быть от 1 до 100 символов."

	btnSkip    = "⏭ Пропустить"
	btnCancel  = "❌ Отмена"
	btnConfirm = "✅ Сохранить"
	btnNew     = "➕ Создать новое"

	notSet = "не указано"
)
