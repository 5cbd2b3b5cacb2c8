package kitchen

import (
	"errors"
	"fmt"
)

// Notice имя уведомления, отправляемого клиенту
type Notice string

const (
	NoticeAlreadyCarrying    Notice = "alreadyCarrying"
	NoticeInvalidIngredient  Notice = "invalidIngredient"
	NoticeInvalidCombination Notice = "invalidCombination"
	NoticeInvalidPlacement   Notice = "invalidPlacement"
	NoticeStationBusy        Notice = "stationBusy"
	NoticeBoardFull          Notice = "boardFull"
	NoticeBoardEmpty         Notice = "boardEmpty"
	NoticeBoardNotEmpty      Notice = "boardNotEmpty"
	NoticeNeedPlate          Notice = "needPlate"
	NoticeNeedPlateOnBoard   Notice = "needPlateOnBoard"
	NoticeCannotPlaceRaw     Notice = "cannotPlaceRaw"
	NoticeInvalidPickup      Notice = "invalidPickup"
	NoticeCannotInteract     Notice = "cannotInteract"
	NoticeNoIngredient       Notice = "noIngredient"
	NoticeNoOrderHere        Notice = "noOrderHere"
	NoticeWrongOrder         Notice = "wrongOrder"
	NoticeOrderCompleted     Notice = "orderCompleted"
	NoticeOrderExpired       Notice = "orderExpired"
	NoticeError              Notice = "error"
)

var (
	// ErrStaleReference игрок или станция не найдены; клиенту ничего не отправляется
	ErrStaleReference = errors.New("stale reference")
	// ErrInvariant нарушение внутреннего инварианта
	ErrInvariant = errors.New("invariant violation")
)

// Rejection отказ в действии игрока. Состояние при этом не меняется.
type Rejection struct {
	Notice  Notice
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Notice, r.Message)
}

func reject(n Notice, format string, args ...any) error {
	return &Rejection{Notice: n, Message: fmt.Sprintf(format, args...)}
}

// Notifier доставляет уведомления клиентам комнаты
type Notifier interface {
	Notify(playerID string, notice Notice, message string)
	Broadcast(notice Notice, message string)
}

// MatchControl действия комнаты при завершении матча
type MatchControl interface {
	Lock()
	BroadcastGameOver(finalScore int)
	DisconnectAll()
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, Notice, string) {}
func (nopNotifier) Broadcast(Notice, string)      {}

type nopControl struct{}

func (nopControl) Lock()                 {}
func (nopControl) BroadcastGameOver(int) {}
func (nopControl) DisconnectAll()        {}
