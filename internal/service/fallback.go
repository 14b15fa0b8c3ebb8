package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultAttemptTimeout ограничивает одну попытку запроса к эндпоинту
const DefaultAttemptTimeout = 15 * time.Second

// ErrNoEndpoints возвращается, если для сети не настроено ни одного эндпоинта
var ErrNoEndpoints = errors.New("no endpoints configured")

// TryEndpoints перебирает эндпоинты по порядку, пока одна из попыток не завершится успешно.
// Каждая попытка получает собственный таймаут. Возвращает результат и эндпоинт, который ответил;
// если все попытки неудачны - объединённую ошибку по всем эндпоинтам.
func TryEndpoints[T any](ctx context.Context, endpoints []string, timeout time.Duration, attempt func(ctx context.Context, endpoint string) (T, error)) (T, string, error) {
	return TryEndpointsPaced(ctx, endpoints, timeout, nil, attempt)
}

// TryEndpointsPaced работает как TryEndpoints, но перед каждой попыткой вызывает wait
// на родительском контексте. Время ожидания не входит в таймаут попытки.
// Ошибка wait прекращает перебор.
func TryEndpointsPaced[T any](ctx context.Context, endpoints []string, timeout time.Duration, wait func(ctx context.Context) error, attempt func(ctx context.Context, endpoint string) (T, error)) (T, string, error) {
	var zero T
	if len(endpoints) == 0 {
		return zero, "", ErrNoEndpoints
	}
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	errs := make([]error, 0, len(endpoints))
	for i, endpoint := range endpoints {
		if wait != nil {
			if err := wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("endpoint %d (%s): %w", i+1, endpoint, err))
				break
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := attempt(attemptCtx, endpoint)
		cancel()
		if err == nil {
			return result, endpoint, nil
		}
		errs = append(errs, fmt.Errorf("endpoint %d (%s): %w", i+1, endpoint, err))
	}
	return zero, "", errors.Join(errs...)
}
