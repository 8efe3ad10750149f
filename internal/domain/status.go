package domain

// Status — статус жизненного цикла заказа.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// statusSequence — линейная последовательность для прогресс-бара.
// cancelled в последовательность не входит (поглощающее состояние).
var statusSequence = [...]Status{
	StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered,
}

// ValidStatus — проверка принадлежности множеству статусов.
// Легальность переходов нигде не проверяется: админский PATCH и консьюмер
// статусов могут выставить любой статус любому заказу.
func ValidStatus(s Status) bool {
	if s == StatusCancelled {
		return true
	}
	for _, known := range statusSequence {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal — терминальные для UI статусы (кнопки действий не показываются).
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Progress — позиция заказа на прогресс-баре. Чисто презентационная величина.
type Progress struct {
	StepIndex int `json:"step_index"`
	Percent   int `json:"percent"`
}

// ProgressFor — прогресс по статусу: (index+1)/5 для пяти линейных статусов;
// cancelled — одношаговый бар, заполненный на 100%.
// Неизвестный статус считается начальным.
func ProgressFor(s Status) Progress {
	if s == StatusCancelled {
		return Progress{StepIndex: 0, Percent: 100}
	}
	for i, known := range statusSequence {
		if s == known {
			return Progress{StepIndex: i, Percent: (i + 1) * 100 / len(statusSequence)}
		}
	}
	return Progress{StepIndex: 0, Percent: 1 * 100 / len(statusSequence)}
}
