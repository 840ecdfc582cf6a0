package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Коды рыночного анализатора
	InsufficientData      failure.ErrorCode = "InsufficientData"      // Рабочий набор пуст, считать нечего
	ProjectionUnavailable failure.ErrorCode = "ProjectionUnavailable" // Движок проекции упал, отдаём тегированный отказ
	InvalidDateRange      failure.ErrorCode = "InvalidDateRange"      // Диапазон дат кривой, откатились на окно по умолчанию
	MalformedRecord       failure.ErrorCode = "MalformedRecord"       // Сырое объявление не распарсилось
	InvalidTradeSide      failure.ErrorCode = "InvalidTradeSide"      // Ожидаем sell или buy
	InvalidPriceBasis     failure.ErrorCode = "InvalidPriceBasis"     // Ожидаем min, avg или max
	MarketUnavailable     failure.ErrorCode = "MarketUnavailable"     // Маркетплейс не отдал ни одной страницы
)
