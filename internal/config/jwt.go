package config

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadPrivateKey() (*rsa.PrivateKey, error) {
	pem, err := requireEnvOrFile("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
}

func loadPublicKey() (*rsa.PublicKey, error) {
	pem, err := requireEnvOrFile("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
}

func NewJWT() (*JWT, error) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("unable to load JWT private key: %w", err)
	}
	publicKey, err := loadPublicKey()
	if err != nil {
		return nil, fmt.Errorf("unable to load JWT public key: %w", err)
	}
	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.GetSigningMethod("RS256"),
		tokenLifetime: time.Hour * 24 * 30,
	}, nil
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return j.publicKey, nil },
	)
}
