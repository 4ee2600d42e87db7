package main

import "context"

// browseMove перечисляет перемещения курсора просмотра.
type browseMove int

const (
	moveShow browseMove = iota
	moveBack
	moveForward
	moveBegin
	moveEnd
)

// browseStatus различает исходы показа записи: есть запись, записей нет,
// хранилище вернуло ошибку. Пустой раздел уводит в меню раздела,
// ошибка — в главное меню.
type browseStatus int

const (
	browseRecord browseStatus = iota
	browseEmpty
	browseFailed
)

// pager листает записи одного вида по одной, со смещением от начала.
type pager[T any] struct {
	at    func(ctx context.Context, userID int64, index int) (*T, error)
	count func(ctx context.Context, userID int64) (int64, error)
}

// move возвращает новую позицию курсора. Перемещение применяется только
// если по целевому смещению есть запись; иначе курсор не двигается.
// Ошибки проб не всплывают: следующий show сам их покажет.
func (p pager[T]) move(ctx context.Context, userID int64, index int, m browseMove) int {
	switch m {
	case moveBack:
		if index-1 < 0 {
			return index
		}
		if record, err := p.at(ctx, userID, index-1); err == nil && record != nil {
			return index - 1
		}
	case moveForward:
		if record, err := p.at(ctx, userID, index+1); err == nil && record != nil {
			return index + 1
		}
	case moveBegin:
		if record, err := p.at(ctx, userID, 0); err == nil && record != nil {
			return 0
		}
	case moveEnd:
		total, err := p.count(ctx, userID)
		if err != nil || total == 0 {
			return index
		}
		last := int(total) - 1
		if record, err := p.at(ctx, userID, last); err == nil && record != nil {
			return last
		}
	}
	return index
}

// show возвращает запись на текущей позиции и исход обращения.
func (p pager[T]) show(ctx context.Context, userID int64, index int) (*T, browseStatus, error) {
	record, err := p.at(ctx, userID, index)
	if err != nil {
		return nil, browseFailed, err
	}
	if record == nil {
		return nil, browseEmpty, nil
	}
	return record, browseRecord, nil
}
