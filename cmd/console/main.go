package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"app/internal/console"
	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

// 注文APIを叩くクライアント。コンソールのSourceと遷移の両方を担う。
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type ordersResponse struct {
	Orders []usecase.OrderOutput `json:"orders"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *apiClient) Login(ctx context.Context, email string, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}

	c.token = out.AccessToken
	return nil
}

func (c *apiClient) FetchOrders(ctx context.Context) ([]usecase.OrderOutput, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch orders: status %d", resp.StatusCode)
	}

	var out ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *apiClient) Transition(ctx context.Context, orderID string, status model.OrderStatus) (usecase.OrderOutput, error) {
	body, _ := json.Marshal(map[string]string{"orderId": orderID, "status": string(status)})

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return usecase.OrderOutput{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return usecase.OrderOutput{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return usecase.OrderOutput{}, err
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return usecase.OrderOutput{}, fmt.Errorf("transition: %s", e.Error)
		}
		return usecase.OrderOutput{}, fmt.Errorf("transition: status %d", resp.StatusCode)
	}

	var out usecase.OrderOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return usecase.OrderOutput{}, err
	}
	return out, nil
}

func printOrders(w *console.Watcher) {
	orders := w.Orders()
	if len(orders) == 0 {
		fmt.Println("no orders")
		return
	}

	if err := w.LastErr(); err != nil {
		//失敗しても手元の一覧は保持している。rでリトライ。
		fmt.Printf("! last poll failed: %v (showing last known orders)\n", err)
	}

	for _, o := range orders {
		fmt.Printf("[%s] %s  %s  S/%s  %s\n",
			o.Status, o.ID, o.CustomerName, o.TotalAmount.StringFixed(2), o.CreatedAt.Local().Format("15:04:05"))
		for _, it := range o.Items {
			fmt.Printf("    %dx %s (S/%s)\n", it.Quantity, it.ItemName, it.Price.StringFixed(2))
		}
	}
}

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	email := os.Getenv("CONSOLE_EMAIL")
	password := os.Getenv("CONSOLE_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("CONSOLE_EMAIL and CONSOLE_PASSWORD are required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newAPIClient(baseURL)
	if err := client.Login(ctx, email, password); err != nil {
		log.Fatal(err)
	}

	alerter := console.NewBellAlerter(os.Stdout, 2*time.Second)
	watcher := console.NewWatcher(client, alerter, console.Config{})

	go watcher.Run(ctx)

	fmt.Println("commands: list | confirm <id> | cancel <id> | deliver <id> | notify <id> | r | bg | fg | quit")

	transition := func(orderID string, status model.OrderStatus) {
		out, err := client.Transition(ctx, orderID, status)
		if err != nil {
			fmt.Println(err)
			return
		}
		//次のポーリングを待たずに反映して警告条件を再評価
		watcher.ApplyLocal(out)
		fmt.Printf("[%s] %s\n", out.Status, out.ID)
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			printOrders(watcher)
		case "confirm":
			if len(fields) == 2 {
				transition(fields[1], model.OrderStatusConfirmed)
			}
		case "cancel":
			if len(fields) == 2 {
				transition(fields[1], model.OrderStatusCancelled)
			}
		case "deliver":
			if len(fields) == 2 {
				transition(fields[1], model.OrderStatusDelivered)
			}
		case "notify":
			if len(fields) != 2 {
				continue
			}
			for _, o := range watcher.Orders() {
				if o.ID == fields[1] {
					link, err := console.NotifyLink(o)
					if err != nil {
						fmt.Println(err)
						break
					}
					fmt.Println(link)
					break
				}
			}
		case "r":
			//手動リトライ
			watcher.PollOnce(ctx)
			printOrders(watcher)
		case "bg":
			watcher.SetForeground(false)
		case "fg":
			watcher.SetForeground(true)
		case "quit":
			cancel()
			return
		}
	}
}
