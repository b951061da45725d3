// Package email sends transactional mail for identity verification decisions.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"lapor-warga/internal/config"
)

type Service interface {
	SendVerificationApproved(ctx context.Context, toEmail, fullName string) error
	SendVerificationDeclined(ctx context.Context, toEmail, fullName, reason string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &service{
		client: client,
		config: cfg,
	}
}

func (s *service) SendVerificationApproved(ctx context.Context, toEmail, fullName string) error {
	subject := "Identitas Anda Telah Terverifikasi - Lapor Warga"

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="id">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Verifikasi Identitas Berhasil - Lapor Warga</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">

	<!-- Header -->
	<div style="background: linear-gradient(135deg, #10b981 0%%, #059669 100%%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="color: #ffffff; margin: 0; font-size: 28px;">
			Lapor Warga
		</h1>
		<p style="color: #d1fae5; margin: 10px 0 0 0; font-size: 16px;">
			Suara Warga, Aksi Bersama
		</p>
	</div>

	<!-- Content -->
	<div style="background-color: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px;">

		<h2 style="color: #111827; margin-top: 0;">
			Halo, %s!
		</h2>

		<p>
			Kabar baik! Permintaan verifikasi identitas Anda di <strong>Lapor Warga</strong>
			telah <strong>disetujui</strong> oleh petugas kami.
		</p>

		<div style="background-color: #ecfdf5; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #10b981;">
			<h3 style="margin-top: 0; color: #065f46;">
				Akun Terverifikasi
			</h3>
			<p style="margin-bottom: 0;">
				Akun Anda kini berstatus terverifikasi. Laporan dan usulan yang Anda
				kirim akan diprioritaskan dalam proses penanganan.
			</p>
		</div>

		<p style="font-size: 14px; color: #6b7280;">
			Jika Anda memiliki pertanyaan, jangan ragu untuk menghubungi tim dukungan kami.
		</p>

		<hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">

		<p style="font-size: 14px; color: #6b7280;">
			Salam hangat,<br>
			<strong>Tim Lapor Warga</strong>
		</p>
	</div>

	<!-- Footer -->
	<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #9ca3af;">
		<p>
			© 2026 Lapor Warga. Hak cipta dilindungi.
		</p>
	</div>

</body>
</html>`, fullName)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Lapor Warga <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendVerificationDeclined(ctx context.Context, toEmail, fullName, reason string) error {
	subject := "Permintaan Verifikasi Identitas Ditolak - Lapor Warga"

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="id">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Verifikasi Identitas Ditolak - Lapor Warga</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">

	<!-- Header -->
	<div style="background: linear-gradient(135deg, #10b981 0%%, #059669 100%%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="color: #ffffff; margin: 0; font-size: 28px;">
			Lapor Warga
		</h1>
		<p style="color: #d1fae5; margin: 10px 0 0 0; font-size: 16px;">
			Suara Warga, Aksi Bersama
		</p>
	</div>

	<!-- Content -->
	<div style="background-color: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px;">

		<h2 style="color: #111827; margin-top: 0;">
			Halo, %s!
		</h2>

		<p>
			Mohon maaf, permintaan verifikasi identitas Anda di <strong>Lapor Warga</strong>
			belum dapat kami setujui.
		</p>

		<div style="background-color: #fef2f2; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #ef4444;">
			<h3 style="margin-top: 0; color: #991b1b;">
				Alasan Penolakan
			</h3>
			<p style="margin-bottom: 0;">
				%s
			</p>
		</div>

		<p>
			Anda dapat mengajukan permintaan verifikasi kembali setelah melengkapi
			data yang diperlukan.
		</p>

		<p style="font-size: 14px; color: #6b7280;">
			Jika Anda memiliki pertanyaan, jangan ragu untuk menghubungi tim dukungan kami.
		</p>

		<hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">

		<p style="font-size: 14px; color: #6b7280;">
			Salam hangat,<br>
			<strong>Tim Lapor Warga</strong>
		</p>
	</div>

	<!-- Footer -->
	<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #9ca3af;">
		<p>
			© 2026 Lapor Warga. Hak cipta dilindungi.
		</p>
	</div>

</body>
</html>`, fullName, reason)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Lapor Warga <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
