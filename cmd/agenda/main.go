package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-desk/internal/apiclient"
	"github.com/BruksfildServices01/barber-desk/internal/config"
	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/desk"
	"github.com/BruksfildServices01/barber-desk/internal/logging"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

const usage = `uso: agenda <comando> [flags]

comandos:
  login   -email <email>            (senha lida da entrada padrão)
  logout
  month   [-month AAAA-MM] [-day AAAA-MM-DD] [-status STATUS] [-barber ID] [-tz ZONA]
  status  -month AAAA-MM -id ID -to STATUS [-tz ZONA]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logging.NewWithWriter(cfg, os.Stderr)

	path, err := apiclient.DefaultSessionPath()
	if err != nil {
		log.Fatal().Err(err).Msg("session path")
	}
	client := apiclient.New(cfg.APIBaseURL, apiclient.NewFileStore(path), apiclient.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := bufio.NewReader(os.Stdin)

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, client, in, os.Args[2:])
	case "logout":
		err = client.Logout()
	case "month":
		err = runMonth(ctx, client, log, os.Args[2:])
	case "status":
		err = runStatus(ctx, client, log, in, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrNoSession) {
			fmt.Fprintln(os.Stderr, "sessão expirada, faça login novamente: agenda login -email ...")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, client *apiclient.Client, in *bufio.Reader, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "e-mail")
	_ = fs.Parse(args)

	if *email == "" {
		return errors.New("informe -email")
	}

	fmt.Fprint(os.Stderr, "senha: ")
	password, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	sess, err := client.Login(ctx, *email, strings.TrimSpace(password))
	if err != nil {
		return err
	}
	fmt.Printf("olá, %s (%s)\n", sess.User.Name, strings.Join(sess.User.Roles, ", "))
	return nil
}

type viewFlags struct {
	month  string
	tz     string
	day    string
	status string
	barber uint
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.month, "month", "", "mês AAAA-MM (padrão: atual)")
	fs.StringVar(&v.tz, "tz", timezone.DefaultTimezone, "fuso horário da barbearia")
}

// workspace loads the month named by v into a fresh desk.Workspace.
func (v *viewFlags) workspace(ctx context.Context, client *apiclient.Client, log zerolog.Logger) (*desk.Workspace, error) {
	if !timezone.IsValid(v.tz) {
		return nil, fmt.Errorf("fuso horário inválido: %s", v.tz)
	}
	loc := timezone.Location(v.tz)

	ws := desk.New(client, loc, timezone.System(), log)

	if v.month != "" {
		t, err := time.ParseInLocation("2006-01", v.month, loc)
		if err != nil {
			return nil, fmt.Errorf("mês inválido: %s", v.month)
		}
		ws.GoTo(schedule.MonthOf(t, loc))
	}

	if err := ws.Reload(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func runMonth(ctx context.Context, client *apiclient.Client, log zerolog.Logger, args []string) error {
	var v viewFlags
	fs := flag.NewFlagSet("month", flag.ExitOnError)
	v.register(fs)
	fs.StringVar(&v.day, "day", "", "dia AAAA-MM-DD para listar a agenda")
	fs.StringVar(&v.status, "status", "", "filtrar por status")
	fs.UintVar(&v.barber, "barber", 0, "filtrar por barbeiro")
	_ = fs.Parse(args)

	ws, err := v.workspace(ctx, client, log)
	if err != nil {
		return err
	}

	filters := schedule.Filters{BarberID: v.barber}
	if v.status != "" {
		filters.Status = domain.Status(strings.ToUpper(v.status))
		if !filters.Status.Valid() {
			return fmt.Errorf("status inválido: %s", v.status)
		}
	}
	ws.SetFilters(filters)

	if v.day != "" {
		key, err := schedule.ParseKey(v.day, ws.Location())
		if err != nil || !ws.SelectDay(key) {
			return fmt.Errorf("dia fora do mês exibido: %s", v.day)
		}
	}

	printGrid(os.Stdout, ws.Grid())

	if agenda, ok := ws.Agenda(); ok {
		printAgenda(ctx, os.Stdout, ws, agenda)
	}
	return nil
}

func runStatus(ctx context.Context, client *apiclient.Client, log zerolog.Logger, in *bufio.Reader, args []string) error {
	var v viewFlags
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	v.register(fs)
	id := fs.Uint("id", 0, "agendamento")
	to := fs.String("to", "", "novo status")
	_ = fs.Parse(args)

	if *id == 0 || *to == "" {
		return errors.New("informe -id e -to")
	}

	ws, err := v.workspace(ctx, client, log)
	if err != nil {
		return err
	}

	confirm := func(s lineitem.Summary) bool {
		fmt.Println(s.Text)
		fmt.Print("Confirmar conclusão? [s/N] ")
		answer, _ := in.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "s" || answer == "sim"
	}

	ap, err := ws.Transition(ctx, *id, domain.Status(strings.ToUpper(*to)), confirm)
	if errors.Is(err, desk.ErrNotConfirmed) {
		fmt.Println("conclusão cancelada")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("agendamento %d: %s\n", ap.ID, ap.Status)
	return nil
}
