// Package middleware — цепочка обработчиков telebot: логирование обновлений
// и перехват паник.
package middleware

import (
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Logger возвращает middleware, логирующее входящие обновления.
func Logger(log *slog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			var action string
			if msg := c.Message(); msg != nil {
				action = "message: " + msg.Text
			} else if cb := c.Callback(); cb != nil {
				action = "callback: " + cb.Data
			} else {
				action = "unknown"
			}
			if sender := c.Sender(); sender != nil {
				log.Debug("update", "user_id", sender.ID, "action", action)
			} else {
				log.Debug("update", "action", action)
			}
			return next(c)
		}
	}
}

// Recover возвращает middleware, перехватывающее панику в обработчике
// и превращающее ее в залогированную ошибку.
func Recover(log *slog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var e error
					switch x := r.(type) {
					case error:
						e = x
					case string:
						e = errors.New(x)
					default:
						e = errors.New("unknown panic")
					}
					log.Error("recovered from panic", "err", e)
					err = e
				}
			}()
			return next(c)
		}
	}
}
