package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"turismo/internal/config"
	"turismo/internal/domain/model"
	"turismo/internal/usecase"

	log "github.com/sirupsen/logrus"
)

// SMTPNotifier はusecase.NotifierのSMTP実装。
// SMTP_HOSTが未設定ならログ出力だけで成功扱いにする（開発用）
type SMTPNotifier struct {
	host     string
	port     string
	from     string
	user     string
	password string
}

func NewSMTPNotifier(cfg config.Config) *SMTPNotifier {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     from,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
	}
}

func (n *SMTPNotifier) OrderCreated(to string, data usecase.OrderEmailData) error {
	subject := fmt.Sprintf("Orden #%d creada - Olimpiadas Turismo", data.OrderID)
	body := "Tu orden fue creada y esta pendiente de pago.\n\n" + orderBody(data)
	return n.send(to, subject, body)
}

func (n *SMTPNotifier) PurchaseConfirmed(to string, data usecase.OrderEmailData) error {
	subject := "Compra exitosa! - Olimpiadas Turismo"
	body := "Gracias por tu compra! Tu orden fue procesada exitosamente.\n\n" + orderBody(data)
	return n.send(to, subject, body)
}

func (n *SMTPNotifier) OrderStatusChanged(to string, data usecase.OrderEmailData, status model.OrderStatus) error {
	subject := fmt.Sprintf("Orden #%d actualizada - Olimpiadas Turismo", data.OrderID)
	body := fmt.Sprintf("El estado de tu orden cambio a %s.\n\n", status.String()) + orderBody(data)
	return n.send(to, subject, body)
}

func (n *SMTPNotifier) VerificationCode(to string, code string) error {
	subject := "Verifica tu correo electronico"
	body := fmt.Sprintf("Tu codigo de verificacion es: %s\nEste codigo expirara en 10 minutos.", code)
	return n.send(to, subject, body)
}

// 明細のテキスト表
func orderBody(data usecase.OrderEmailData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Numero de orden: #%d\n", data.OrderID)
	fmt.Fprintf(&b, "Fecha: %s\n\n", data.Date.Format("02/01/2006 15:04"))

	for _, it := range data.Items {
		fmt.Fprintf(&b, "  %s x%d  $%s\n", it.Name, it.Quantity, it.Price.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTotal (IVA incluido): $%s\n", data.Total.StringFixed(2))
	return b.String()
}

func (n *SMTPNotifier) send(to string, subject string, body string) error {
	if n.host == "" {
		log.WithFields(log.Fields{"to": to, "subject": subject}).Info("smtp disabled, email not sent")
		return nil
	}

	addr := n.host + ":" + n.port

	msg := "From: " + n.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.password, n.host)
	}

	return smtp.SendMail(addr, auth, n.from, []string{to}, []byte(msg))
}
