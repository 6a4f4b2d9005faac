package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/chinedu-ok/eventpass/configs"
)

const paystackBaseURL = "https://api.paystack.co"

var httpClient = &http.Client{Timeout: 10 * time.Second}

type InitializeTransactionResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type VerifyTransactionResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

type ResolveAccountResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	} `json:"data"`
}

type CreateRecipientResponse struct {
	Status bool `json:"status"`
	Data   struct {
		RecipientCode string `json:"recipient_code"`
	} `json:"data"`
}

type InitiateTransferResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status       string `json:"status"`
		Reference    string `json:"reference"`
		TransferCode string `json:"transfer_code"`
	} `json:"data"`
}

func doRequest(method, path string, payload interface{}, out interface{}) error {
	secret := config.Config("PAYSTACK_SECRET_KEY")
	if secret == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is not set in .env")
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %v", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, paystackBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Paystack API error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal gateway response: %v", err)
	}
	return nil
}

// InitializeTransaction starts a hosted checkout. Amount is in kobo.
func InitializeTransaction(amount int64, email, reference string) (*InitializeTransactionResponse, error) {
	payload := map[string]interface{}{
		"amount":       amount,
		"email":        email,
		"reference":    reference,
		"currency":     "NGN",
		"callback_url": config.Config("PAYSTACK_CALLBACK_URL"),
	}

	var out InitializeTransactionResponse
	if err := doRequest("POST", "/transaction/initialize", payload, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("transaction initialization failed: %s", out.Message)
	}
	return &out, nil
}

func VerifyTransaction(reference string) (*VerifyTransactionResponse, error) {
	var out VerifyTransactionResponse
	if err := doRequest("GET", "/transaction/verify/"+reference, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveBankAccount returns the account holder name for a bank account.
func ResolveBankAccount(accountNumber, bankCode string) (*ResolveAccountResponse, error) {
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s", accountNumber, bankCode)

	var out ResolveAccountResponse
	if err := doRequest("GET", path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("could not resolve bank account")
	}
	return &out, nil
}

func CreateTransferRecipient(name, accountNumber, bankCode string) (*CreateRecipientResponse, error) {
	payload := map[string]interface{}{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}

	var out CreateRecipientResponse
	if err := doRequest("POST", "/transferrecipient", payload, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("failed to create transfer recipient")
	}
	return &out, nil
}

// InitiateTransfer moves amount kobo to a previously created recipient.
func InitiateTransfer(amount int64, recipientCode, reference, reason string) (*InitiateTransferResponse, error) {
	payload := map[string]interface{}{
		"source":    "balance",
		"amount":    amount,
		"recipient": recipientCode,
		"reference": reference,
		"reason":    reason,
	}

	var out InitiateTransferResponse
	if err := doRequest("POST", "/transfer", payload, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("transfer initiation failed: %s", out.Message)
	}
	return &out, nil
}
