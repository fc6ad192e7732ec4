package ecommerce

import (
	"encoding/json"
	"time"
)

// ---------------------------------------------------------------------------
// GraphQL envelope
// ---------------------------------------------------------------------------

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type shopifyPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type shopifyUserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type shopifyMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type shopifyMoneySet struct {
	ShopMoney shopifyMoney `json:"shopMoney"`
}

type shopifyAddress struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Address1  string   `json:"address1"`
	Address2  string   `json:"address2"`
	City      string   `json:"city"`
	Province  string   `json:"province"`
	Country   string   `json:"country"`
	Zip       string   `json:"zip"`
	Phone     string   `json:"phone"`
	Formatted []string `json:"formatted"`
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

const productsQuery = `
query getProducts($cursor: String, $limit: Int!) {
  products(first: $limit, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        title
        description
        productType
        vendor
        status
        tags
        variants(first: 100) {
          edges {
            node {
              id
              title
              sku
              price
              inventoryQuantity
              taxable
              availableForSale
              selectedOptions { name value }
            }
          }
        }
      }
    }
  }
}`

const productFields = `
  id
  variants(first: 100) { edges { node { id sku } } }`

const productCreateMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {` + productFields + `
    }
    userErrors { field message }
  }
}`

const productUpdateMutation = `
mutation productUpdate($input: ProductInput!) {
  productUpdate(input: $input) {
    product {` + productFields + `
    }
    userErrors { field message }
  }
}`

type shopifyVariant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity *int   `json:"inventoryQuantity"`
	Taxable           bool   `json:"taxable"`
	AvailableForSale  bool   `json:"availableForSale"`
	SelectedOptions   []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
}

type shopifyProduct struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ProductType string   `json:"productType"`
	Vendor      string   `json:"vendor"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Variants    struct {
		Edges []struct {
			Node shopifyVariant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productsPage struct {
	Products struct {
		PageInfo shopifyPageInfo `json:"pageInfo"`
		Edges    []struct {
			Node shopifyProduct `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productMutationPayload struct {
	Product    *shopifyProduct    `json:"product"`
	UserErrors []shopifyUserError `json:"userErrors"`
}

type productVariantInput struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title,omitempty"`
	SKU     string   `json:"sku,omitempty"`
	Price   string   `json:"price,omitempty"`
	Taxable bool     `json:"taxable"`
	Options []string `json:"options,omitempty"`
}

type productInput struct {
	ID              string                `json:"id,omitempty"`
	Title           string                `json:"title"`
	DescriptionHTML string                `json:"descriptionHtml"`
	ProductType     string                `json:"productType"`
	Vendor          string                `json:"vendor"`
	Status          string                `json:"status,omitempty"`
	Tags            []string              `json:"tags"`
	Variants        []productVariantInput `json:"variants,omitempty"`
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

const customersQuery = `
query getCustomers($cursor: String, $limit: Int!) {
  customers(first: $limit, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        firstName
        lastName
        email
        phone
        verifiedEmail
        numberOfOrders
        amountSpent { amount currencyCode }
        defaultAddress {
          firstName lastName address1 address2 city province country zip phone
          formatted(withName: false, withCompany: false)
        }
        tags
        note
      }
    }
  }
}`

const customerCreateMutation = `
mutation customerCreate($input: CustomerInput!) {
  customerCreate(input: $input) {
    customer { id }
    userErrors { field message }
  }
}`

const customerUpdateMutation = `
mutation customerUpdate($input: CustomerInput!) {
  customerUpdate(input: $input) {
    customer { id }
    userErrors { field message }
  }
}`

type shopifyCustomer struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	VerifiedEmail  bool            `json:"verifiedEmail"`
	NumberOfOrders json.Number     `json:"numberOfOrders"`
	AmountSpent    shopifyMoney    `json:"amountSpent"`
	DefaultAddress *shopifyAddress `json:"defaultAddress"`
	Tags           []string        `json:"tags"`
	Note           string          `json:"note"`
}

type customersPage struct {
	Customers struct {
		PageInfo shopifyPageInfo `json:"pageInfo"`
		Edges    []struct {
			Node shopifyCustomer `json:"node"`
		} `json:"edges"`
	} `json:"customers"`
}

type customerMutationPayload struct {
	Customer *struct {
		ID string `json:"id"`
	} `json:"customer"`
	UserErrors []shopifyUserError `json:"userErrors"`
}

type mailingAddressInput struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Address1  string `json:"address1,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type customerInput struct {
	ID        string                `json:"id,omitempty"`
	FirstName string                `json:"firstName"`
	LastName  string                `json:"lastName"`
	Email     string                `json:"email,omitempty"`
	Phone     string                `json:"phone,omitempty"`
	Note      string                `json:"note"`
	Tags      []string              `json:"tags"`
	Addresses []mailingAddressInput `json:"addresses,omitempty"`
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

const ordersQuery = `
query getOrders($cursor: String, $limit: Int!) {
  orders(first: $limit, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        name
        email
        phone
        createdAt
        displayFinancialStatus
        displayFulfillmentStatus
        subtotalPriceSet { shopMoney { amount currencyCode } }
        totalShippingPriceSet { shopMoney { amount currencyCode } }
        totalTaxSet { shopMoney { amount currencyCode } }
        totalPriceSet { shopMoney { amount currencyCode } }
        shippingAddress { address1 address2 city province country zip phone firstName lastName }
        billingAddress { address1 address2 city province country zip phone firstName lastName }
        lineItems(first: 50) {
          edges {
            node { title variantTitle quantity originalUnitPrice sku }
          }
        }
      }
    }
  }
}`

type shopifyLineItem struct {
	Title             string `json:"title"`
	VariantTitle      string `json:"variantTitle"`
	Quantity          int    `json:"quantity"`
	OriginalUnitPrice string `json:"originalUnitPrice"`
	SKU               string `json:"sku"`
}

type shopifyOrder struct {
	ID                       string           `json:"id"`
	Name                     string           `json:"name"`
	Email                    string           `json:"email"`
	Phone                    string           `json:"phone"`
	CreatedAt                *time.Time       `json:"createdAt"`
	DisplayFinancialStatus   string           `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string           `json:"displayFulfillmentStatus"`
	SubtotalPriceSet         *shopifyMoneySet `json:"subtotalPriceSet"`
	TotalShippingPriceSet    *shopifyMoneySet `json:"totalShippingPriceSet"`
	TotalTaxSet              *shopifyMoneySet `json:"totalTaxSet"`
	TotalPriceSet            *shopifyMoneySet `json:"totalPriceSet"`
	ShippingAddress          *shopifyAddress  `json:"shippingAddress"`
	BillingAddress           *shopifyAddress  `json:"billingAddress"`
	LineItems                struct {
		Edges []struct {
			Node shopifyLineItem `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type ordersPage struct {
	Orders struct {
		PageInfo shopifyPageInfo `json:"pageInfo"`
		Edges    []struct {
			Node shopifyOrder `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

// ---------------------------------------------------------------------------
// Shop
// ---------------------------------------------------------------------------

const shopQuery = `query { shop { name } }`

type shopPayload struct {
	Shop struct {
		Name string `json:"name"`
	} `json:"shop"`
}
