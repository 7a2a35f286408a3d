package services

// verificationEmailHTML takes the code, the minutes until expiry and the year.
const verificationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your Verification Code</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; color: #2d2d2d; background-color: #f4f6f8; margin: 0; padding: 20px; }
  .container { max-width: 520px; margin: auto; background: #ffffff; border-radius: 8px; overflow: hidden; }
  .header { background-color: #294859; color: white; padding: 20px; text-align: center; }
  .content { padding: 30px; text-align: center; }
  .code { font-size: 34px; font-weight: bold; letter-spacing: 8px; color: #294859; background-color: #eef2f4; padding: 14px 20px; border-radius: 5px; display: inline-block; margin: 20px 0; }
  .footer { padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Verify your email</h1></div>
    <div class="content">
      <p>Enter this code to continue setting up your hotel.</p>
      <div class="code">%s</div>
      <p>The code expires in %d minutes.</p>
    </div>
    <div class="footer">&copy; %d Vivere Stays</div>
  </div>
</body>
</html>`

// contactSalesEmailPlain takes hotel, account email, plan, PMS kind and PMS name.
const contactSalesEmailPlain = `A hotel finished plan selection without a supported PMS connector.

Hotel: %s
Account: %s
Plan: %s
PMS: %s (%s)

Please reach out to complete their setup.`
