package mq

import "errors"

var (
	// ErrNoChannel — AMQP канал недоступен (нет соединения или идёт reconnect).
	ErrNoChannel = errors.New("no channel available")

	// ErrConnectionClosed — соединение закрыто через Close.
	ErrConnectionClosed = errors.New("connection closed")
)
