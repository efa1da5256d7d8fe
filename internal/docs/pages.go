package docs

// swaggerPage renders Swagger UI against the local OpenAPI document.
const swaggerPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <title>i-revenue-api — Documentação</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({
        url: '/openapi.json',
        dom_id: '#swagger-ui',
      });
    };
  </script>
</body>
</html>`

const loginForm = `  <form method="post" action="/docs/login">
    <label>Usuário <input type="text" name="username" autocomplete="username" /></label>
    <label>Senha <input type="password" name="password" autocomplete="current-password" /></label>
    <button type="submit">Entrar</button>
  </form>`

// loginPage is the docs login form.
const loginPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <title>i-revenue-api — Login</title>
</head>
<body>
  <h1>Documentação protegida</h1>
` + loginForm + `
</body>
</html>`

// loginPageError is the same form with an invalid-credentials notice.
const loginPageError = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <title>i-revenue-api — Login</title>
</head>
<body>
  <h1>Documentação protegida</h1>
  <p>Usuário ou senha incorretos.</p>
` + loginForm + `
</body>
</html>`
