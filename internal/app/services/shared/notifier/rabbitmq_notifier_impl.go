package notifier

import (
	"context"
	"encoding/json"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type rabbitMQNotifier struct {
	Channel *amqp091.Channel
	Queue   string
	Log     *zap.Logger
}

func NewRabbitMQNotifier(rabbitMQConnection *amqp091.Connection, queue string, logger *zap.Logger) (contracts.EventNotifier, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}

	return &rabbitMQNotifier{
		Channel: channel,
		Queue:   queue,
		Log:     logger,
	}, nil
}

func (s *rabbitMQNotifier) PublishEventRecorded(ctx context.Context, notification *models.EventNotification) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(notification)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	headers := amqp091.Table{
		"message_type":     "JSON",
		"requeue_strategy": "DROP",
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Priority:     0,
		Headers:      headers,
	}

	if err := s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message); err != nil {
		return exceptions.ErrRabbitMQPublish(err, s.Queue)
	}

	s.Log.Info("rabbitMQNotifier.PublishEventRecorded succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, notification.EventID),
	)
	return nil
}
