package employees

import "context"

type StoreAPI interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, emp Employee, passwordHash string) (string, error)
	Update(ctx context.Context, id string, emp Employee) error
	Delete(ctx context.Context, id string) error
	SetFaceDescriptor(ctx context.Context, id string, descriptor []float64) error
	CredentialsByEmail(ctx context.Context, email string) (id, passwordHash, role, totpSecret string, err error)
	TOTPSecret(ctx context.Context, id string) (secret string, enabled bool, err error)
	SetTOTPSecret(ctx context.Context, id, secret string, enabled bool) error
}
