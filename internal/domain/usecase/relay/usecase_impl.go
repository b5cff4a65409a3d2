package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/gateway/api"
	"weather-relay/internal/domain/gateway/notify"
	"weather-relay/internal/domain/model"
	httpclient "weather-relay/pkg/http"
	"weather-relay/pkg/log"
	"weather-relay/pkg/msg"
)

const (
	// DefaultTimeout bounds every forecast call
	DefaultTimeout = 10 * time.Second
	// DefaultModuleTag prefixes every line written by the relay
	DefaultModuleTag = "PirateWeatherRelay"

	timestampLayout = "2-Jan-06 15:04"
)

// Options tunes the relay; zero values fall back to the defaults
type Options struct {
	ModuleTag string
	Timeout   time.Duration
	Writer    log.LineWriter
	Now       func() time.Time
}

type relayUseCase struct {
	gateway   api.ForecastGateway
	notifier  notify.Notifier
	moduleTag string
	timeout   time.Duration
	writer    log.LineWriter
	now       func() time.Time
	inFlight  sync.WaitGroup
}

func NewRelayUseCase(gateway api.ForecastGateway, notifier notify.Notifier, opts Options) UseCase {
	if opts.ModuleTag == "" {
		opts.ModuleTag = DefaultModuleTag
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Writer == nil {
		opts.Writer = log.NewLineWriter()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &relayUseCase{
		gateway:   gateway,
		notifier:  notifier,
		moduleTag: opts.ModuleTag,
		timeout:   opts.Timeout,
		writer:    opts.Writer,
		now:       opts.Now,
	}
}

// HandleFetchRequest validates synchronously, then runs the call in its own goroutine
func (uc *relayUseCase) HandleFetchRequest(ctx context.Context, req entity.FetchRequest) {
	if err := req.Validate(); err != nil {
		uc.writeError(req, (&ConfigError{Err: err}).Error())
		return
	}

	uc.writeInfo(req, msg.GetMessage("relay.fetching", uc.gateway.MaskedURL(req)))

	// the call outlives the caller; only the timeout may cancel it
	detached := context.WithoutCancel(ctx)

	uc.inFlight.Add(1)
	go func() {
		defer uc.inFlight.Done()
		uc.dispatch(detached, req)
	}()
}

func (uc *relayUseCase) dispatch(ctx context.Context, req entity.FetchRequest) {
	result, err := uc.Fetch(ctx, req)
	if err != nil {
		uc.writeError(req, msg.GetMessage("relay.request-failed", err))
		return
	}

	notifyCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if err := uc.notifier.Notify(notifyCtx, model.WeatherDataNotification, result); err != nil {
		deliveryErr := &DeliveryError{Notification: model.WeatherDataNotification, Err: err}
		uc.writeError(req, msg.GetMessage("relay.request-failed", deliveryErr))
		return
	}

	log.Debug(msg.GetMessage("relay.delivered", model.WeatherDataNotification, req.InstanceID),
		zap.String("module", uc.moduleTag))
}

// Fetch runs one attempt bounded by the relay timeout and classifies any failure
func (uc *relayUseCase) Fetch(ctx context.Context, req entity.FetchRequest) (entity.WeatherResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	result, err := uc.gateway.GetForecast(ctx, req)
	if err != nil {
		return nil, uc.classify(err)
	}

	return result.WithInstanceID(req.InstanceID), nil
}

func (uc *relayUseCase) classify(err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &ProtocolError{StatusCode: statusErr.StatusCode, Reason: statusErr.Reason}
	}

	var decodeErr *httpclient.DecodeError
	if errors.As(err, &decodeErr) {
		return &PayloadError{Err: decodeErr.Err}
	}

	return &TransportError{Timeout: isTimeout(err), After: uc.timeout, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Wait blocks until every dispatched request has finished
func (uc *relayUseCase) Wait() {
	uc.inFlight.Wait()
}

func (uc *relayUseCase) writeInfo(req entity.FetchRequest, message string) {
	uc.writer.WriteLine(api.MaskSecret(fmt.Sprintf("[%s] %s %s", uc.moduleTag, uc.timestamp(), message), req.APIKey))
}

func (uc *relayUseCase) writeError(req entity.FetchRequest, message string) {
	uc.writer.WriteLine(api.MaskSecret(fmt.Sprintf("[%s] %s %s %s", uc.moduleTag, uc.timestamp(), log.ErrorMarker, message), req.APIKey))
}

func (uc *relayUseCase) timestamp() string {
	return uc.now().Format(timestampLayout)
}
