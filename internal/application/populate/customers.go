package populate

import (
	"context"
	"fmt"

	appidentity "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/domain/identity"
)

// CustomerRegistrar registers customers with a login
type CustomerRegistrar interface {
	Register(ctx context.Context, input appidentity.RegisterCustomerInput) (*identity.Customer, error)
}

type sampleCustomer struct {
	firstName string
	lastName  string
	email     string
}

// sampleCustomers is a fixed list so seeded stores are reproducible
var sampleCustomers = []sampleCustomer{
	{"Hayden", "Zieme", "hayden.zieme12@hotmail.com"},
	{"Mikayla", "Cassin", "mikayla.cassin@gmail.com"},
	{"Eliezer", "Bernhard", "eliezer_bernhard47@yahoo.com"},
	{"Trevor", "Donnelly", "trevor.donnelly@gmail.com"},
	{"Marques", "Sawayn", "marques.sawayn@hotmail.com"},
	{"Shanon", "Goodwin", "shanon_goodwin@yahoo.com"},
	{"Kimberly", "Kautzer", "kimberly.kautzer81@gmail.com"},
	{"Cristobal", "Ritchie", "cristobal.ritchie@hotmail.com"},
}

// SeedCustomers registers n verified customers sharing the given password.
// The first customer is always hayden.zieme12@hotmail.com.
func SeedCustomers(ctx context.Context, registrar CustomerRegistrar, n int, password string) ([]*identity.Customer, error) {
	customers := make([]*identity.Customer, 0, n)
	for i := 0; i < n; i++ {
		sample := sampleCustomerAt(i)
		customer, err := registrar.Register(ctx, appidentity.RegisterCustomerInput{
			FirstName:    sample.firstName,
			LastName:     sample.lastName,
			EmailAddress: sample.email,
			Password:     password,
			Verified:     true,
		})
		if err != nil {
			return customers, fmt.Errorf("failed to seed customer %s: %w", sample.email, err)
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func sampleCustomerAt(i int) sampleCustomer {
	if i < len(sampleCustomers) {
		return sampleCustomers[i]
	}
	return sampleCustomer{
		firstName: "Customer",
		lastName:  fmt.Sprintf("No%d", i+1),
		email:     fmt.Sprintf("customer%d@shopfront.test", i+1),
	}
}
