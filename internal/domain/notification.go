package domain

type NotificationKind string

const (
	NotifyOpponentFound   NotificationKind = "OPPONENT_FOUND"
	NotifyMatchStarted    NotificationKind = "MATCH_STARTED"
	NotifyRoundResult     NotificationKind = "ROUND_RESULT"
	NotifyMatchFinished   NotificationKind = "MATCH_FINISHED"
	NotifyOrderRecycled   NotificationKind = "ORDER_RECYCLED"
	NotifyOrderExpired    NotificationKind = "ORDER_EXPIRED"
	NotifyDepositCredited NotificationKind = "DEPOSIT_CREDITED"
)

// Notification событие для доставки игроку. Какими каналами доставлять, решает
// диспетчер уведомлений.
type Notification struct {
	UserID  int64
	Kind    NotificationKind
	Message string
}
