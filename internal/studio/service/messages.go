package service

const (
	msgTopicRequired   = "Сначала опишите тему, чтобы GPT мог предложить идеи."
	msgGenerating      = "Создаю %d пост(ов) по теме: %s."
	msgNothingSelected = "Выберите посты в библиотеке, чтобы создать картинки."
	msgImagesReady     = "Готово! Создано изображений: %d."
	msgImageReady      = "Изображение обновлено."
	msgBotNameRequired = "Введите имя бота."
	msgChannelRequired = "Введите название канала."
	msgBotAdded        = "Бот добавлен: %s."
	msgChannelAdded    = "Канал добавлен: %s."
	msgBotRemoved      = "Бот удален: %s."
	msgChannelRemoved  = "Канал удален: %s."
	msgBotMissing      = "Такого бота нет в списке."
	msgChannelMissing  = "Такого канала нет в списке."
	msgPostMissing     = "Пост не найден."
	msgEmptyQueue      = "Нет избранных постов для отправки."
	msgQueued          = "Отправка %d постов ботом %s в канал %s."
	msgBodySaved       = "Текст поста сохранен."
	msgReset           = "Данные сброшены."
)
