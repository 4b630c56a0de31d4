package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"launchdir/pkg/sendemail"
	"launchdir/pkg/users"
)

type OTPService interface {
	GenerateAndSendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (bool, error)
}

type otpService struct {
	repo     OTPRepository
	userRepo users.UserRepository
	es       sendemail.EmailService
}

func NewOTPService(repo OTPRepository, userRepo users.UserRepository, es sendemail.EmailService) OTPService {
	return &otpService{repo: repo, userRepo: userRepo, es: es}
}

func (s *otpService) GenerateAndSendOTP(ctx context.Context, email string) error {
	// Only registered accounts get codes
	if _, err := s.userRepo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return errors.New("no account with that email")
		}
		return err
	}

	count, err := s.repo.CountOTPsInLastHour(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check OTP count: %w", err)
	}
	if count >= 3 {
		return errors.New("too many OTP requests, please try again later")
	}

	code := generateOTP(6)
	expiresAt := time.Now().Add(10 * time.Minute)

	if _, err := s.repo.CreateOTP(ctx, email, code, expiresAt); err != nil {
		return fmt.Errorf("failed to create OTP: %w", err)
	}

	if err := s.sendOTPEmail(email, code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	_ = s.repo.DeleteExpiredOTPs(ctx)

	return nil
}

func (s *otpService) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	otp, err := s.repo.GetOTPByEmail(ctx, email)
	if err != nil {
		return false, errors.New("no OTP found for this email or OTP already verified")
	}

	if time.Now().After(otp.ExpiresAt) {
		return false, errors.New("OTP has expired")
	}

	if otp.Code != code {
		return false, errors.New("invalid OTP code")
	}

	if err := s.repo.MarkOTPAsVerified(ctx, otp.ID); err != nil {
		return false, fmt.Errorf("failed to mark OTP as verified: %w", err)
	}

	if err := s.userRepo.UpdateVerifiedAtByEmail(ctx, email, time.Now()); err != nil {
		return false, fmt.Errorf("failed to update user verification: %w", err)
	}

	return true, nil
}

func generateOTP(length int) string {
	digits := "0123456789"
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back to '0'
			n = big.NewInt(0)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code)
}

func (s *otpService) sendOTPEmail(toEmail, code string) error {
	subject := "Your verification code"
	plainTextContent := fmt.Sprintf("Your verification code is: %s. This code will expire in 10 minutes.", code)
	htmlContent := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Verify your email</h2>
			<p>Your verification code is:</p>
			<div style="font-size: 24px; font-weight: bold; color: #333; padding: 10px; background-color: #f5f5f5; border-radius: 5px; display: inline-block;">
				%s
			</div>
			<p>This code will expire in 10 minutes.</p>
			<p>If you didn't request this code, please ignore this email.</p>
		</div>
	`, code)

	return s.es.SendEmail(subject, toEmail, plainTextContent, htmlContent)
}
