package telegram

const (
	MsgBusy    = "Пожалуйста, подождите: я ещё отвечаю на ваш предыдущий вопрос."
	MsgError   = "Произошла ошибка. Попробуйте задать вопрос ещё раз чуть позже."
	MsgNonText = "Я понимаю только текстовые сообщения. Напишите ваш вопрос текстом."
)

const MsgInformation = `Здравствуйте! Я — ассистент поддержки КПД.

Напишите свой вопрос обычным текстом, и я подберу ответ из базы знаний.
Пока я отвечаю на вопрос, новый вопрос принять не смогу — дождитесь ответа.

Если подходящего ответа не нашлось, напишите на почту mail@kpd.ru — специалисты обязательно помогут.

Команды:
/start, /help — показать это сообщение`
