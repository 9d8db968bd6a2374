package bot

const (
	msgWelcome = "👋 Привет! Я помогу вести домашнюю аптечку: учитывать лекарства, следить за сроками годности и делиться аптечкой с близкими.\n\n"
	msgHelp    = `✔ Список команд:

/upload — добавить лекарство
/my_kits — мои аптечки
/update — изменить лекарство
/del — удалить лекарство
/find — поиск по категории
/expired — просроченные лекарства
/expiring — скоро истекает срок
/low_stock — заканчиваются
/share — поделиться аптечкой
/delete_kits — удалить или восстановить аптечку
/cancel — отменить текущее действие

Просто напишите название лекарства, чтобы найти его в своих аптечках.`

	msgUnknownCommand = "Неизвестная команда. Список команд: /help"
	msgInternalError  = "⚠️ Что-то пошло не так. Попробуйте ещё раз позже."
	msgRateLimited    = "Слишком много запросов, подождите немного."
	msgStaleButton    = "Эта кнопка устарела."

	msgNoKits        = "У вас пока нет аптечек. Создайте первую через /upload"
	msgChooseKit     = "📦 Ваши аптечки:"
	msgKitEmpty      = "В аптечке пока нет лекарств."
	msgKitNotFound   = "❌ Аптечка не найдена."
	msgItemNotFound  = "❌ Лекарство не найдено."
	msgDeleteKits    = "🗑 Выберите аптечку для удаления:"
	msgConfirmDelKit = "Удалить аптечку «%s»? Её можно будет восстановить из корзины."
	msgKitDeleted    = "🗑 Аптечка «%s» перемещена в корзину."
	msgKitRestored   = "♻️ Аптечка «%s» восстановлена."
	msgTrashEmpty    = "Корзина пуста."
	msgTrash         = "🗑 Удалённые аптечки:"

	msgChooseDelete  = "🗑 Выберите лекарство для удаления:"
	msgConfirmDelete = "Удалить «%s» из аптечки «%s»?"
	msgItemDeleted   = "🗑 Лекарство удалено."
	msgNoItems       = "В ваших аптечках пока нет лекарств. Добавьте их: /upload"

	msgChooseCategory = "🔎 Выберите категорию:"
	msgNothingFound   = "Ничего не найдено."
	msgNoExpired      = "✅ Просроченных лекарств нет."
	msgNoExpiring     = "✅ В ближайшие %d дн. сроки не истекают."
	msgNoLowStock     = "✅ Все лекарства в достаточном количестве."

	btnAdd     = "➕ Добавить"
	btnEdit    = "✏️ Изменить"
	btnDelete  = "🗑 Удалить"
	btnBack    = "⬅️ Назад"
	btnPrev    = "◀️"
	btnNext    = "▶️"
	btnYes     = "✅ Да"
	btnNo      = "❌ Нет"
	btnTrash   = "🗑 Корзина"
	btnRestore = "♻️ Восстановить"
)
